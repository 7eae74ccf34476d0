package utils

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"empresspc/models"
	"empresspc/templates"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

var quotationTemplate = template.Must(template.ParseFS(templates.FS, templates.Quotation))

// PDFRenderer turns a complete HTML document into PDF bytes.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// BuildQuotationPDFData formats a quotation for the PDF template. company may
// be nil when no business profile was saved.
func BuildQuotationPDFData(company *models.InitialSetup, q *models.Quotation) models.QuotationPDFData {
	data := models.QuotationPDFData{
		Company:    company,
		Quotation:  q,
		Date:       formatDate(q.Date),
		ExpiryDate: formatDate(q.ExpiryDate),
		Subtotal:   FormatINR(q.Totals.Subtotal),
		TotalGst:   FormatINR(q.Totals.TotalGst),
		GrandTotal: FormatINR(q.Totals.GrandTotal),
		TotalWords: NumberToCurrencyWords(q.Totals.GrandTotal),
	}

	if company != nil {
		contacts := make([]string, 0, len(company.Mobile))
		for _, m := range company.Mobile {
			if m.Label != "" {
				contacts = append(contacts, m.Number+"("+m.Label+")")
			} else {
				contacts = append(contacts, m.Number)
			}
		}
		data.Contacts = strings.Join(contacts, ", ")
	}

	for i, it := range q.Items {
		rate := it.UnitPrice()
		data.Rows = append(data.Rows, models.QuotationPDFRow{
			Index:     i + 1,
			Component: it.Component,
			Category:  it.Category,
			Warranty:  it.Warranty,
			HSN:       it.HSN,
			Quantity:  FormatQuantity(it.Quantity),
			Unit:      it.Unit,
			Rate:      FormatINR(rate),
			GST:       FormatQuantity(it.GST),
			Amount:    FormatINR(rate * it.Quantity),
		})
	}

	hsns := make([]string, 0, len(q.Totals.HSNTotals))
	for hsn := range q.Totals.HSNTotals {
		hsns = append(hsns, hsn)
	}
	sort.Strings(hsns)
	for _, hsn := range hsns {
		data.HSNRows = append(data.HSNRows, models.QuotationPDFHSNRow{
			HSN:    hsn,
			Amount: FormatINR(q.Totals.HSNTotals[hsn]),
		})
	}
	return data
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02-Jan-2006")
}

func RenderQuotationHTML(data models.QuotationPDFData) (string, error) {
	var buf bytes.Buffer
	if err := quotationTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute quotation template: %w", err)
	}
	return buf.String(), nil
}

// ChromeRenderer prints HTML to an A4 PDF with headless Chrome.
type ChromeRenderer struct {
	Timeout time.Duration
}

func (c *ChromeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	tmpHTML := filepath.Join(os.TempDir(), fmt.Sprintf("quotation_%d.html", time.Now().UnixNano()))
	if err := os.WriteFile(tmpHTML, []byte(html), 0o644); err != nil {
		return nil, fmt.Errorf("write temp html: %w", err)
	}
	defer os.Remove(tmpHTML)

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("file://"+tmpHTML),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).  // A4 width
				WithPaperHeight(11.7). // A4 height
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return pdfBuf, nil
}
