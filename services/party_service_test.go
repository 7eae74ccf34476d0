package services

import (
	"context"
	"testing"
	"time"

	"empresspc/models"
	"empresspc/repository"
	"empresspc/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPartyService() *PartyService {
	svc := NewPartyService(memory.New())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestCreatePartyNormalizes(t *testing.T) {
	svc := newPartyService()

	p, err := svc.Create(context.Background(), alice, PartyInput{
		Name:  " Sharma Traders ",
		Phone: "9000000001",
		Email: "Sales@Sharma.IN",
		GSTIN: "09abcde1234f1z5",
		Type:  models.PartyCustomer,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sharma Traders", p.Name)
	assert.Equal(t, "sales@sharma.in", p.Email)
	assert.Equal(t, "09ABCDE1234F1Z5", p.GSTIN)
	assert.Equal(t, models.DefaultPartyState, p.State)
	assert.Equal(t, alice.ID, p.CreatedBy)

	_, err = svc.Create(context.Background(), alice, PartyInput{Name: "X", Phone: "1", Type: "vendor"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPartyScope(t *testing.T) {
	svc := newPartyService()
	ctx := context.Background()

	mine, err := svc.Create(ctx, alice, PartyInput{Name: "Sharma Traders", Phone: "1", Type: models.PartyCustomer})
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, PartyInput{Name: "Gupta Supplies", Phone: "2", Type: models.PartySupplier})
	require.NoError(t, err)

	list, err := svc.List(ctx, alice, "", "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	list, err = svc.List(ctx, admin, models.PartySupplier, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Gupta Supplies", list[0].Name)

	list, err = svc.List(ctx, admin, "", "sharma")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Get(ctx, bob, mine.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	name := "Stolen"
	_, err = svc.Update(ctx, bob, mine.ID, UpdatePartyInput{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, bob, mine.ID), ErrForbidden)

	require.NoError(t, svc.Delete(ctx, admin, mine.ID))
	_, err = svc.Get(ctx, alice, mine.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdatePartyPartial(t *testing.T) {
	svc := newPartyService()
	ctx := context.Background()
	p, err := svc.Create(ctx, alice, PartyInput{Name: "Sharma Traders", Phone: "1", Address: "Katra", Type: models.PartyCustomer})
	require.NoError(t, err)

	phone := "9000000009"
	got, err := svc.Update(ctx, alice, p.ID, UpdatePartyInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, got.Phone)
	assert.Equal(t, "Katra", got.Address)

	empty := ""
	_, err = svc.Update(ctx, alice, p.ID, UpdatePartyInput{Name: &empty})
	assert.ErrorIs(t, err, ErrValidation)
}
