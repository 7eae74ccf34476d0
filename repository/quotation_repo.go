package repository

import (
	"context"
	"time"

	"empresspc/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuotationFilter narrows quotation listings. A nil Owner means every owner.
type QuotationFilter struct {
	Owner      *primitive.ObjectID
	Status     models.QuotationStatus
	CustomerID *primitive.ObjectID
	Customer   string
	Search     string
	From       *time.Time
	To         *time.Time
	Skip       int64
	Limit      int64
}

type QuotationRepository interface {
	CreateQuotation(ctx context.Context, q *models.Quotation) error
	GetQuotation(ctx context.Context, id primitive.ObjectID) (*models.Quotation, error)
	ListQuotations(ctx context.Context, f QuotationFilter) ([]models.Quotation, int64, error)
	UpdateQuotation(ctx context.Context, q *models.Quotation) error
	DeleteQuotation(ctx context.Context, id primitive.ObjectID) error
	// ListRevisions returns the quotations linked to rootID, lowest revision first.
	ListRevisions(ctx context.Context, rootID primitive.ObjectID) ([]models.Quotation, error)
	CountRevisions(ctx context.Context, rootID primitive.ObjectID) (int64, error)
	UpdatePDF(ctx context.Context, id primitive.ObjectID, url string, t time.Time) error
}

// CounterRepository hands out per-key sequence numbers. Next never returns
// a value at or below floor.
type CounterRepository interface {
	Next(ctx context.Context, key string, floor int64) (int64, error)
	// Release gives n back if it is still the last number handed out for key.
	Release(ctx context.Context, key string, n int64) error
}
