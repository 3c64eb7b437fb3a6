package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock-api/internal/domain"
)

func TestProductIncrementStock(t *testing.T) {
	p := &Product{Reference: "VIS-M8", CurrentStock: 5}
	require.NoError(t, p.IncrementStock(10))
	assert.Equal(t, 15, p.CurrentStock)

	assert.ErrorIs(t, p.IncrementStock(0), domain.ErrInvalidInput)
	assert.Equal(t, 15, p.CurrentStock)
}

func TestProductDecrementStock(t *testing.T) {
	p := &Product{Reference: "VIS-M8", CurrentStock: 10}
	require.NoError(t, p.DecrementStock(10))
	assert.Equal(t, 0, p.CurrentStock, "se puede retirar exactamente el stock disponible")

	err := p.DecrementStock(1)
	assert.ErrorIs(t, err, domain.ErrInsufficientProductStock)
	assert.Equal(t, 0, p.CurrentStock, "el stock nunca queda negativo")

	assert.ErrorIs(t, p.DecrementStock(-3), domain.ErrInvalidInput)
}

func TestProductIsBelowReorderThreshold(t *testing.T) {
	cases := []struct {
		name      string
		stock     int
		threshold int
		below     bool
		shortfall int
	}{
		{"por debajo", 4, 5, true, 1},
		{"igual no alerta", 5, 5, false, 0},
		{"por encima", 6, 5, false, 0},
		{"sin punto de pedido", 0, 0, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Product{CurrentStock: tc.stock, ReorderThreshold: tc.threshold}
			assert.Equal(t, tc.below, p.IsBelowReorderThreshold())
			assert.Equal(t, tc.shortfall, p.Shortfall())
		})
	}
}
