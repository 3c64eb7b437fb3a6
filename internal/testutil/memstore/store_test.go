package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock-api/internal/application/ports"
	"github.com/jhoicas/gestion-stock-api/internal/domain"
)

func TestRun_ErrorDescartaEscrituras(t *testing.T) {
	s := New()
	p := s.MustProduct("VIS-M8", "Vis M8", 5, 0)

	boom := errors.New("boom")
	err := s.Run(context.Background(), func(ctx context.Context, repos ports.Repositories) error {
		cur, err := repos.Products.GetForUpdate(ctx, p.ID)
		require.NoError(t, err)
		cur.CurrentStock = 1
		require.NoError(t, repos.Products.UpdateStock(ctx, cur))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Products().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.CurrentStock)
}

func TestFailAfter_FallaUnaSolaVez(t *testing.T) {
	s := New()
	s.FailAfter("products.create", 1, errors.New("disco lleno"))

	s.MustProduct("A", "A", 0, 0)
	assert.Panics(t, func() { s.MustProduct("B", "B", 0, 0) })
	assert.NotPanics(t, func() { s.MustProduct("C", "C", 0, 0) }, "la falla se consume")
}

func TestRestricciones(t *testing.T) {
	s := New()
	p := s.MustProduct("VIS-M8", "Vis M8", 0, 0)
	s.MustBatch(p.ID, "LOT-1", p.CreatedAt, 3, 3, "1")

	assert.Panics(t, func() { s.MustBatch(p.ID, "LOT-1", p.CreatedAt, 1, 1, "1") }, "lot_number único")
	assert.Panics(t, func() { s.MustBatch("nope", "LOT-2", p.CreatedAt, 1, 1, "1") }, "FK a producto")
	assert.ErrorIs(t, s.Products().Delete(context.Background(), p.ID), domain.ErrConflict)
}
