package services

import (
	"time"

	"empresspc/models"
)

type CreateQuotationInput struct {
	QuotationNumber string                  `json:"quotationNumber" validate:"omitempty,max=64"`
	Date            *time.Time              `json:"date"`
	ExpiryDate      *time.Time              `json:"expiryDate"`
	CustomerDetails models.CustomerDetails  `json:"customerDetails"`
	BusinessDetails *models.BusinessDetails `json:"businessDetails"`
	Items           []models.QuotationItem  `json:"items" validate:"required,min=1"`
	Totals          models.Totals           `json:"totals"`
	Status          models.QuotationStatus  `json:"status"`
	Notes           string                  `json:"notes" validate:"max=2000"`
}

// UpdateQuotationInput applies only the fields that are set. The number and
// id of a quotation cannot be changed.
type UpdateQuotationInput struct {
	Date            *time.Time              `json:"date"`
	ExpiryDate      *time.Time              `json:"expiryDate"`
	CustomerDetails *models.CustomerDetails `json:"customerDetails"`
	BusinessDetails *models.BusinessDetails `json:"businessDetails"`
	Items           []models.QuotationItem  `json:"items" validate:"omitempty,min=1"`
	Totals          *models.Totals          `json:"totals"`
	Status          *models.QuotationStatus `json:"status"`
	Notes           *string                 `json:"notes" validate:"omitempty,max=2000"`
}

// ReviseInput overrides parts of the copied quotation. Status is accepted but
// ignored: revisions always start as drafts.
type ReviseInput struct {
	Items           []models.QuotationItem  `json:"items" validate:"omitempty,min=1"`
	Totals          *models.Totals          `json:"totals"`
	BusinessDetails *models.BusinessDetails `json:"businessDetails"`
	Notes           *string                 `json:"notes" validate:"omitempty,max=2000"`
	Status          models.QuotationStatus  `json:"status"`
}

type ListQuotationsInput struct {
	Status    models.QuotationStatus
	Customer  string
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

type QuotationPage struct {
	Quotations []models.Quotation `json:"quotations"`
	Pagination Pagination         `json:"pagination"`
}
