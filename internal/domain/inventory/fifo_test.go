package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
)

var day0 = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

func batch(id string, daysAfter, remaining int, cost string) *entity.Batch {
	return &entity.Batch{
		ID:                id,
		LotNumber:         "LOT-" + id,
		ProductID:         "p1",
		EntryDate:         day0.AddDate(0, 0, daysAfter),
		InitialQuantity:   remaining,
		RemainingQuantity: remaining,
		UnitCost:          decimal.RequireFromString(cost),
	}
}

// ─── PlanFIFO ────────────────────────────────────────────────────────────────

func TestPlanFIFO_UnSoloLote(t *testing.T) {
	b1 := batch("b1", 0, 100, "10")
	plan, err := PlanFIFO("Vis", []*entity.Batch{b1}, 30)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, b1, plan[0].Batch)
	assert.Equal(t, 30, plan[0].Quantity)
	assert.Equal(t, 100, b1.RemainingQuantity, "planificar no modifica los lotes")
}

func TestPlanFIFO_CruzaLotesEnOrdenDeEntrada(t *testing.T) {
	// entregados desordenados: el plan debe seguir la fecha de entrada
	newer := batch("b2", 5, 50, "12")
	older := batch("b1", 0, 20, "10")
	plan, err := PlanFIFO("Vis", []*entity.Batch{newer, older}, 45)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, "b1", plan[0].Batch.ID)
	assert.Equal(t, 20, plan[0].Quantity)
	assert.Equal(t, "b2", plan[1].Batch.ID)
	assert.Equal(t, 25, plan[1].Quantity)
}

func TestPlanFIFO_NoTocaLotesSobrantes(t *testing.T) {
	b1 := batch("b1", 0, 10, "10")
	b2 := batch("b2", 1, 10, "10")
	b3 := batch("b3", 2, 10, "10")
	plan, err := PlanFIFO("Vis", []*entity.Batch{b1, b2, b3}, 10)
	require.NoError(t, err)
	assert.Len(t, plan, 1, "el segundo lote no se toca si el primero alcanza exacto")
}

func TestPlanFIFO_MismaFechaConservaOrdenDeInsercion(t *testing.T) {
	first := batch("first", 0, 5, "1")
	second := batch("second", 0, 5, "2")
	plan, err := PlanFIFO("Vis", []*entity.Batch{first, second}, 7)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, "first", plan[0].Batch.ID)
	assert.Equal(t, 5, plan[0].Quantity)
	assert.Equal(t, 2, plan[1].Quantity)
}

func TestPlanFIFO_IgnoraLotesAgotados(t *testing.T) {
	empty := batch("b0", -3, 0, "9")
	b1 := batch("b1", 0, 10, "10")
	plan, err := PlanFIFO("Vis", []*entity.Batch{empty, b1}, 4)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "b1", plan[0].Batch.ID)
}

func TestPlanFIFO_StockInsuficiente(t *testing.T) {
	_, err := PlanFIFO("Vis", []*entity.Batch{batch("b1", 0, 10, "1"), batch("b2", 1, 5, "1")}, 16)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Contains(t, err.Error(), "disponible 15")
	assert.Contains(t, err.Error(), "solicitado 16")
}

func TestPlanFIFO_SinLotes(t *testing.T) {
	_, err := PlanFIFO("Vis", nil, 1)
	assert.ErrorIs(t, err, domain.ErrNoBatchAvailable)

	_, err = PlanFIFO("Vis", []*entity.Batch{batch("b1", 0, 0, "1")}, 1)
	assert.ErrorIs(t, err, domain.ErrNoBatchAvailable, "solo lotes agotados")
}

func TestPlanFIFO_CantidadNoPositiva(t *testing.T) {
	_, err := PlanFIFO("Vis", []*entity.Batch{batch("b1", 0, 10, "1")}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Valuate ─────────────────────────────────────────────────────────────────

func TestValuate_ExcluyeAgotados(t *testing.T) {
	qty, value := Valuate([]*entity.Batch{
		batch("b1", 0, 10, "2.50"),
		batch("b2", 1, 0, "100"),
		batch("b3", 2, 4, "3"),
	})
	assert.Equal(t, 14, qty)
	assert.True(t, decimal.RequireFromString("37").Equal(value), "10x2.50 + 4x3 = 37, got %s", value)
}

func TestValuate_SinLotes(t *testing.T) {
	qty, value := Valuate(nil)
	assert.Equal(t, 0, qty)
	assert.True(t, value.IsZero())
}

func TestValuateByProduct(t *testing.T) {
	other := batch("x", 0, 3, "5")
	other.ProductID = "p2"
	got := ValuateByProduct([]*entity.Batch{batch("b1", 0, 10, "1"), batch("b2", 1, 2, "4"), other, batch("b3", 2, 0, "9")})
	require.Len(t, got, 2)
	assert.Equal(t, 12, got["p1"].Quantity)
	assert.Equal(t, 2, got["p1"].Batches, "el lote agotado no cuenta")
	assert.True(t, decimal.NewFromInt(18).Equal(got["p1"].Value))
	assert.True(t, decimal.NewFromInt(15).Equal(got["p2"].Value))
}

// ─── Números de lote ─────────────────────────────────────────────────────────

func TestLotPrefix(t *testing.T) {
	got := LotPrefix(time.Date(2024, 2, 5, 15, 0, 0, 0, time.UTC), "Écrou-12", "po-2024/7")
	assert.Equal(t, "LOT-20240205-ECRO-PO20", got)
}

func TestLotPrefix_SegmentoCortoOVacio(t *testing.T) {
	got := LotPrefix(day0, "A1", "--")
	assert.Equal(t, "LOT-20240110-A1-XXXX", got)
}

func TestNextLotNumber_PrimerLibre(t *testing.T) {
	taken := map[string]bool{"P-002": true, "P-003": true}
	exists := func(_ context.Context, lot string) (bool, error) { return taken[lot], nil }

	got, err := NextLotNumber(context.Background(), exists, "P", 2)
	require.NoError(t, err)
	assert.Equal(t, "P-004", got)

	got, err = NextLotNumber(context.Background(), exists, "P", 0)
	require.NoError(t, err)
	assert.Equal(t, "P-001", got, "secuencia menor a 1 arranca en 1")
}

func TestNextLotNumber_ErrorDelRepositorio(t *testing.T) {
	boom := errors.New("boom")
	_, err := NextLotNumber(context.Background(), func(context.Context, string) (bool, error) { return false, boom }, "P", 1)
	assert.ErrorIs(t, err, boom)
}

func TestNextLotNumber_SinLibres(t *testing.T) {
	_, err := NextLotNumber(context.Background(), func(context.Context, string) (bool, error) { return true, nil }, "P", 1)
	assert.Error(t, err)
}
