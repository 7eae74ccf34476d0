package services

import (
	"context"
	"testing"

	"empresspc/repository"
	"empresspc/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentCatalog(t *testing.T) {
	svc := NewComponentService(memory.New(), nil)
	ctx := context.Background()

	ram, err := svc.Create(ctx, ComponentInput{Name: "Crucial 16GB DDR4 3200MHz", Category: "RAM", HSN: "8504", Price: 2999, GST: 18, Stock: 20})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ComponentInput{Name: "AMD Ryzen 5 5600X", Category: "Processors", Price: 13999, GST: 18})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ComponentInput{Name: "Intel Core i5-12600K", Category: "Processors", Price: 14999, GST: 18})
	require.NoError(t, err)

	_, err = svc.Create(ctx, ComponentInput{Name: "AMD Ryzen 5 5600X", Category: "Processors"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	catalog, err := svc.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, catalog["Processors"], 2)
	assert.Equal(t, "AMD Ryzen 5 5600X", catalog["Processors"][0].Name)
	assert.Equal(t, ram.ID.Hex(), catalog["RAM"][0].ID)

	require.NoError(t, svc.Delete(ctx, ram.ID))
	catalog, err = svc.Catalog(ctx)
	require.NoError(t, err)
	assert.NotContains(t, catalog, "RAM")

	got, err := svc.Get(ctx, ram.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Processors"}, cats)
}

func TestUpdateComponentRenameConflict(t *testing.T) {
	svc := NewComponentService(memory.New(), nil)
	ctx := context.Background()
	a, err := svc.Create(ctx, ComponentInput{Name: "A", Category: "RAM"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ComponentInput{Name: "B", Category: "RAM"})
	require.NoError(t, err)

	name := "B"
	_, err = svc.Update(ctx, a.ID, UpdateComponentInput{Name: &name})
	assert.ErrorIs(t, err, repository.ErrConflict)

	price := -1.0
	_, err = svc.Update(ctx, a.ID, UpdateComponentInput{Price: &price})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBulkImport(t *testing.T) {
	svc := NewComponentService(memory.New(), nil)
	ctx := context.Background()

	_, err := svc.BulkImport(ctx, nil)
	assert.ErrorIs(t, err, ErrValidation)

	old, err := svc.Create(ctx, ComponentInput{Name: "Logitech C270 HD Webcam", Category: "Web Cameras", Price: 1299})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, old.ID))

	res, err := svc.BulkImport(ctx, []ComponentInput{
		{Name: "Logitech C270 HD Webcam", Category: "Web Cameras", Price: 1499, GST: 18},
		{Name: "", Category: "Web Cameras"},
		{Name: "HP W200 Webcam", Category: "Web Cameras", Price: 999, GST: 18},
		{Name: "Broken", Category: "Web Cameras", Price: -5},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Success)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "", res.Errors[0].Component)
	assert.Equal(t, "Broken", res.Errors[1].Component)

	got, err := svc.Get(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, 1499.0, got.Price)
	assert.True(t, got.IsActive)
}
