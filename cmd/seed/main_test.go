package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogInputs(t *testing.T) {
	inputs, err := catalogInputs(catalogJSON)
	require.NoError(t, err)
	require.Len(t, inputs, 56)

	names := map[string]bool{}
	for _, in := range inputs {
		assert.NotEmpty(t, in.Category)
		assert.NotEmpty(t, in.Name)
		assert.False(t, names[in.Name], "duplicate %s", in.Name)
		names[in.Name] = true
	}
	assert.Equal(t, "Accessories", inputs[0].Category)
	assert.Equal(t, "HP KM160 Wired Mouse and Keyboard Combo - Accessories", inputs[0].Description)
}
