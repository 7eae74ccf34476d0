package models

type QuotationPDFData struct {
	Company    *InitialSetup
	Quotation  *Quotation
	Contacts   string // formatted mobile numbers
	Date       string
	ExpiryDate string
	Rows       []QuotationPDFRow
	HSNRows    []QuotationPDFHSNRow
	Subtotal   string
	TotalGst   string
	GrandTotal string
	TotalWords string
}

type QuotationPDFRow struct {
	Index     int
	Component string
	Category  string
	Warranty  string
	HSN       string
	Quantity  string
	Unit      string
	Rate      string
	GST       string
	Amount    string
}

type QuotationPDFHSNRow struct {
	HSN    string
	Amount string
}
