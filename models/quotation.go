package models

import (
	"maps"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type QuotationStatus string

const (
	StatusDraft    QuotationStatus = "draft"
	StatusSent     QuotationStatus = "sent"
	StatusAccepted QuotationStatus = "accepted"
	StatusDeclined QuotationStatus = "declined"
	StatusExpired  QuotationStatus = "expired"
	StatusInvoiced QuotationStatus = "invoiced"
)

// QuotationStatuses lists every status a quotation may carry. Transitions
// between them are not restricted.
var QuotationStatuses = []QuotationStatus{
	StatusDraft, StatusSent, StatusAccepted, StatusDeclined, StatusExpired, StatusInvoiced,
}

func (s QuotationStatus) Valid() bool {
	return slices.Contains(QuotationStatuses, s)
}

// DefaultExpiry is how long a quotation stays valid when no expiry is given.
const DefaultExpiry = 7 * 24 * time.Hour

// CustomerDetails is a snapshot of the customer taken when the quotation is
// written. It is not kept in sync with the party record.
type CustomerDetails struct {
	ID      *primitive.ObjectID `json:"id,omitempty" bson:"id,omitempty"`
	Name    string              `json:"name" bson:"name"`
	Phone   string              `json:"phone" bson:"phone"`
	Address string              `json:"address" bson:"address"`
	State   string              `json:"state" bson:"state"`
}

// BusinessDetails is a snapshot of the seller.
type BusinessDetails struct {
	CompanyName string `json:"companyName" bson:"companyName"`
	Address     string `json:"address" bson:"address"`
	Phone       string `json:"phone" bson:"phone"`
	Email       string `json:"email" bson:"email"`
	GSTIN       string `json:"gstin" bson:"gstin"`
	State       string `json:"state" bson:"state"`
}

type QuotationItem struct {
	ID                   string  `json:"id" bson:"id"`
	Category             string  `json:"category" bson:"category"`
	Component            string  `json:"component" bson:"component"`
	Quantity             float64 `json:"quantity" bson:"quantity"`
	Unit                 string  `json:"unit" bson:"unit"`
	Warranty             string  `json:"warranty" bson:"warranty"`
	BasePrice            float64 `json:"basePrice" bson:"basePrice"`
	CustomPrice          float64 `json:"customPrice" bson:"customPrice"`
	IsCustomPrice        bool    `json:"isCustomPrice" bson:"isCustomPrice"`
	PurchasePrice        float64 `json:"purchasePrice" bson:"purchasePrice"`
	PurchasePriceWithGST float64 `json:"purchasePriceWithGst" bson:"purchasePriceWithGst"`
	SellingPrice         float64 `json:"sellingPrice" bson:"sellingPrice"`
	SellingPriceWithGST  float64 `json:"sellingPriceWithGst" bson:"sellingPriceWithGst"`
	HSN                  string  `json:"hsn" bson:"hsn"`
	GST                  float64 `json:"gst" bson:"gst"`
}

// UnitPrice is the price the customer pays per unit before tax.
func (i QuotationItem) UnitPrice() float64 {
	if i.IsCustomPrice {
		return i.CustomPrice
	}
	if i.SellingPrice != 0 {
		return i.SellingPrice
	}
	return i.BasePrice
}

// Totals are computed by the client and stored as sent.
type Totals struct {
	Subtotal         float64            `json:"subtotal" bson:"subtotal"`
	TotalGst         float64            `json:"totalGst" bson:"totalGst"`
	GrandTotal       float64            `json:"grandTotal" bson:"grandTotal"`
	TotalProfit      float64            `json:"totalProfit" bson:"totalProfit"`
	TotalPurchase    float64            `json:"totalPurchase" bson:"totalPurchase"`
	ProfitPercentage float64            `json:"profitPercentage" bson:"profitPercentage"`
	HSNTotals        map[string]float64 `json:"hsnTotals,omitempty" bson:"hsnTotals,omitempty"`
}

type Quotation struct {
	ID                  primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	QuotationNumber     string              `json:"quotationNumber" bson:"quotationNumber"`
	Date                time.Time           `json:"date" bson:"date"`
	ExpiryDate          time.Time           `json:"expiryDate" bson:"expiryDate"`
	CustomerDetails     CustomerDetails     `json:"customerDetails" bson:"customerDetails"`
	BusinessDetails     BusinessDetails     `json:"businessDetails" bson:"businessDetails"`
	Items               []QuotationItem     `json:"items" bson:"items"`
	Totals              Totals              `json:"totals" bson:"totals"`
	Status              QuotationStatus     `json:"status" bson:"status"`
	OriginalQuotationID *primitive.ObjectID `json:"originalQuotationId,omitempty" bson:"originalQuotationId,omitempty"`
	RevisionNumber      *int                `json:"revisionNumber" bson:"revisionNumber,omitempty"`
	Notes               string              `json:"notes,omitempty" bson:"notes,omitempty"`
	PdfURL              string              `json:"pdfUrl,omitempty" bson:"pdfUrl,omitempty"`
	PdfCreatedAt        *time.Time          `json:"pdfCreatedAt,omitempty" bson:"pdfCreatedAt,omitempty"`
	CreatedBy           primitive.ObjectID  `json:"createdBy" bson:"createdBy"`
	CreatedAt           time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at" bson:"updated_at"`
}

func (q *Quotation) IsRevision() bool {
	return q.OriginalQuotationID != nil && !q.OriginalQuotationID.IsZero()
}

// RootID returns the id of the original quotation of the chain q belongs to.
func (q *Quotation) RootID() primitive.ObjectID {
	if q.IsRevision() {
		return *q.OriginalQuotationID
	}
	return q.ID
}

// Clone returns a deep copy so callers can mutate it without touching q.
func (q *Quotation) Clone() *Quotation {
	c := *q
	c.Items = slices.Clone(q.Items)
	c.Totals.HSNTotals = maps.Clone(q.Totals.HSNTotals)
	if q.CustomerDetails.ID != nil {
		id := *q.CustomerDetails.ID
		c.CustomerDetails.ID = &id
	}
	if q.OriginalQuotationID != nil {
		id := *q.OriginalQuotationID
		c.OriginalQuotationID = &id
	}
	if q.RevisionNumber != nil {
		n := *q.RevisionNumber
		c.RevisionNumber = &n
	}
	if q.PdfCreatedAt != nil {
		t := *q.PdfCreatedAt
		c.PdfCreatedAt = &t
	}
	return &c
}
