package services

import (
	"context"
	"testing"
	"time"

	"empresspc/auth"
	"empresspc/models"
	"empresspc/repository/memory"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var fixedNow = time.Date(2026, 10, 15, 10, 30, 0, 0, time.UTC)

var (
	admin = auth.Identity{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	alice = auth.Identity{ID: primitive.NewObjectID(), Role: models.RoleStaff}
	bob   = auth.Identity{ID: primitive.NewObjectID(), Role: models.RoleStaff}
)

func newQuotationService(t *testing.T) (*QuotationService, *memory.Store) {
	t.Helper()
	st := memory.New()
	require.NoError(t, st.SaveInitial(context.Background(), &models.InitialSetup{
		CompanyName: "EmpressPC",
		Address:     "Civil Lines, Prayagraj",
		GSTIN:       "09ABCDE1234F1Z5",
		State:       models.DefaultPartyState,
	}))
	svc := NewQuotationService(st, st, st, st, nil, nil)
	svc.now = func() time.Time { return fixedNow }
	svc.Numbers.now = svc.now
	return svc, st
}

func item(price, qty, gst float64) models.QuotationItem {
	return models.QuotationItem{
		ID:           primitive.NewObjectID().Hex(),
		Category:     "Processors",
		Component:    "AMD Ryzen 5 5600X",
		Quantity:     qty,
		Unit:         "Nos",
		BasePrice:    price,
		SellingPrice: price,
		GST:          gst,
		HSN:          "8473",
	}
}

func createQuotation(t *testing.T, svc *QuotationService, id auth.Identity, customer string, grandTotal float64) *models.Quotation {
	t.Helper()
	q, err := svc.Create(context.Background(), id, CreateQuotationInput{
		CustomerDetails: models.CustomerDetails{Name: customer, Phone: "9876543210"},
		Items:           []models.QuotationItem{item(100, 2, 18)},
		Totals:          models.Totals{Subtotal: 200, TotalGst: 36, GrandTotal: grandTotal},
	})
	require.NoError(t, err)
	return q
}
