package repository

import (
	"context"
	"time"

	"empresspc/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PDFRepository provides methods to fetch and record data for quotation PDFs
type PDFRepository struct {
	QuotationRepo QuotationRepository
	InitialRepo   InitialRepository
}

// NewPDFRepository initializes a PDF repository
func NewPDFRepository(quotationRepo QuotationRepository, initialRepo InitialRepository) *PDFRepository {
	return &PDFRepository{
		QuotationRepo: quotationRepo,
		InitialRepo:   initialRepo,
	}
}

// GetInitialForPDF fetches the latest initial setup / company info
func (r *PDFRepository) GetInitialForPDF(ctx context.Context) (*models.InitialSetup, error) {
	return r.InitialRepo.GetInitial(ctx)
}

// SavePDFLink stores where the rendered PDF of a quotation was uploaded.
func (r *PDFRepository) SavePDFLink(ctx context.Context, id primitive.ObjectID, url string, at time.Time) error {
	return r.QuotationRepo.UpdatePDF(ctx, id, url, at)
}
