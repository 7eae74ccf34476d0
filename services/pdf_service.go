package services

import (
	"context"
	"fmt"
	"time"

	"empresspc/auth"
	"empresspc/metrics"
	"empresspc/models"
	"empresspc/repository"
	"empresspc/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Uploader stores rendered files and returns where they can be fetched.
type Uploader interface {
	Upload(ctx context.Context, data []byte, key string) (string, error)
	Delete(ctx context.Context, url string) error
}

type RenderedPDF struct {
	Data     []byte
	Filename string
	URL      string
}

type PDFService struct {
	Quotations *QuotationService
	Repo       *repository.PDFRepository
	Renderer   utils.PDFRenderer
	// Uploader is nil when no object storage is configured.
	Uploader Uploader
	Metrics  *metrics.Metrics
	Log      *zap.Logger
	now      func() time.Time
}

func NewPDFService(quotations *QuotationService, repo *repository.PDFRepository, renderer utils.PDFRenderer, uploader Uploader, m *metrics.Metrics, log *zap.Logger) *PDFService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PDFService{
		Quotations: quotations,
		Repo:       repo,
		Renderer:   renderer,
		Uploader:   uploader,
		Metrics:    m,
		Log:        log.Named("pdf"),
		now:        time.Now,
	}
}

// Render builds the PDF of a quotation. With upload set the file is also
// stored and its URL recorded on the quotation.
func (s *PDFService) Render(ctx context.Context, id auth.Identity, qid primitive.ObjectID, upload bool) (*RenderedPDF, error) {
	if upload && s.Uploader == nil {
		return nil, invalid("pdf upload is not configured")
	}

	var (
		q       *models.Quotation
		company *models.InitialSetup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		q, err = s.Quotations.Get(gctx, id, qid)
		return err
	})
	g.Go(func() error {
		var err error
		company, err = s.Repo.GetInitialForPDF(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	html, err := utils.RenderQuotationHTML(utils.BuildQuotationPDFData(company, q))
	if err != nil {
		return nil, err
	}
	data, err := s.Renderer.RenderPDF(ctx, html)
	s.Metrics.PDFRendered(err)
	if err != nil {
		return nil, fmt.Errorf("render quotation %s: %w", q.QuotationNumber, err)
	}

	now := s.now().UTC()
	out := &RenderedPDF{Data: data, Filename: q.QuotationNumber + ".pdf"}
	if !upload {
		return out, nil
	}

	key := fmt.Sprintf("%s_%d.pdf", q.QuotationNumber, now.Unix())
	if out.URL, err = s.Uploader.Upload(ctx, data, key); err != nil {
		return nil, err
	}
	if err := s.Repo.SavePDFLink(ctx, q.ID, out.URL, now); err != nil {
		return nil, fmt.Errorf("save pdf link: %w", err)
	}
	if q.PdfURL != "" && q.PdfURL != out.URL {
		if err := s.Uploader.Delete(ctx, q.PdfURL); err != nil {
			s.Log.Warn("delete previous pdf", zap.String("url", q.PdfURL), zap.Error(err))
		}
	}
	s.Log.Info("quotation pdf uploaded", zap.String("number", q.QuotationNumber), zap.String("url", out.URL))
	return out, nil
}
