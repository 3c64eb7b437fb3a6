package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock-api/internal/application/dto"
	"github.com/jhoicas/gestion-stock-api/internal/application/ports"
	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/testutil/memstore"
)

// ─── StockQueryUseCase ───────────────────────────────────────────────────────

// seedValuation: A (2 lotes con saldo + 1 agotado), B (1 lote), C sin lotes.
func seedValuation(t *testing.T) (*memstore.Store, *entity.Product, *entity.Product, *entity.Product) {
	t.Helper()
	store := memstore.New()
	a := store.MustProduct("A-1", "Alfa", 15, 20)
	store.MustBatch(a.ID, "LOT-A0", jan1.AddDate(0, 0, -10), 10, 0, "99")
	store.MustBatch(a.ID, "LOT-A1", jan1, 10, 10, "2.50")
	store.MustBatch(a.ID, "LOT-A2", jan5, 5, 5, "3")
	b := store.MustProduct("B-1", "Beta", 4, 4)
	store.MustBatch(b.ID, "LOT-B1", jan1, 4, 4, "10")
	c := store.MustProduct("C-1", "Gamma", 0, 1)
	return store, a, b, c
}

// gatedTx bloquea cada lectura hasta release y falla si el ctx recibido ya está cancelado.
type gatedTx struct {
	ports.TxRunner
	started chan struct{}
	release chan struct{}
}

func (g *gatedTx) RunReadOnly(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	select {
	case g.started <- struct{}{}:
	default:
	}
	<-g.release
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.TxRunner.RunReadOnly(ctx, fn)
}

func TestGlobalValuation_CancelarUnLlamadorNoAfectaALosDemas(t *testing.T) {
	store, _, _, _ := seedValuation(t)
	gate := &gatedTx{TxRunner: store, started: make(chan struct{}, 1), release: make(chan struct{})}
	uc := NewStockQueryUseCase(gate)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := uc.GlobalValuation(ctx)
		first <- err
	}()
	<-gate.started
	cancel()
	assert.ErrorIs(t, <-first, context.Canceled, "el llamador cancelado deja de esperar")

	second := make(chan error, 1)
	var out *dto.GlobalValuationResponse
	go func() {
		var err error
		out, err = uc.GlobalValuation(context.Background())
		second <- err
	}()
	close(gate.release)

	require.NoError(t, <-second)
	assert.True(t, decimal.NewFromInt(80).Equal(out.TotalValue), "got %s", out.TotalValue)
}

func TestGlobalValuation_SumaLotesConSaldo(t *testing.T) {
	store, _, _, _ := seedValuation(t)
	uc := NewStockQueryUseCase(store)
	uc.now = func() time.Time { return fixed }

	out, err := uc.GlobalValuation(context.Background())
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("80").Equal(out.TotalValue), "25 + 15 + 40 = 80, got %s", out.TotalValue)
	assert.Equal(t, 19, out.TotalQuantity)
	assert.Equal(t, 3, out.Batches, "el lote agotado no cuenta")
	assert.True(t, out.ComputedAt.Equal(fixed))
}

func TestGlobalValuation_AlmacenVacio(t *testing.T) {
	out, err := NewStockQueryUseCase(memstore.New()).GlobalValuation(context.Background())
	require.NoError(t, err)
	assert.True(t, out.TotalValue.IsZero())
	assert.Equal(t, 0, out.Batches)
}

func TestProductValuation_LotesEnOrdenFIFO(t *testing.T) {
	store, a, _, _ := seedValuation(t)
	out, err := NewStockQueryUseCase(store).ProductValuation(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, out.Batches, 2)
	assert.Equal(t, "LOT-A1", out.Batches[0].LotNumber)
	assert.Equal(t, "LOT-A2", out.Batches[1].LotNumber)
	assert.True(t, decimal.RequireFromString("25").Equal(out.Batches[0].Valuation))
	assert.Equal(t, 15, out.TotalQuantity)
	assert.Equal(t, 15, out.CurrentStock)
	assert.True(t, decimal.RequireFromString("40").Equal(out.TotalValue))
}

func TestProductValuation_ProductoSinLotes(t *testing.T) {
	store, _, _, c := seedValuation(t)
	out, err := NewStockQueryUseCase(store).ProductValuation(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Empty(t, out.Batches)
	assert.True(t, out.TotalValue.IsZero())
}

func TestProductValuation_NoExiste(t *testing.T) {
	_, err := NewStockQueryUseCase(memstore.New()).ProductValuation(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAlerts_SoloEstrictamenteDebajo(t *testing.T) {
	store, a, _, c := seedValuation(t)
	alerts, err := NewStockQueryUseCase(store).Alerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 2, "Beta tiene stock igual al punto de pedido y no alerta")
	assert.Equal(t, a.ID, alerts[0].ProductID, "ordenadas por nombre")
	assert.Equal(t, 5, alerts[0].Shortfall)
	assert.Equal(t, c.ID, alerts[1].ProductID)
	assert.Equal(t, 1, alerts[1].Shortfall)
}

func TestGlobalState_PorProducto(t *testing.T) {
	store, a, b, c := seedValuation(t)
	state, err := NewStockQueryUseCase(store).GlobalState(context.Background())
	require.NoError(t, err)
	require.Len(t, state, 3)

	byID := make(map[string]dto.StockStateResponse, len(state))
	for _, s := range state {
		byID[s.ProductID] = s
	}
	assert.True(t, byID[a.ID].InAlert)
	assert.Equal(t, 15, byID[a.ID].AvailableStock)
	assert.True(t, decimal.RequireFromString("40").Equal(byID[a.ID].Valuation))
	assert.False(t, byID[b.ID].InAlert)
	assert.True(t, byID[c.ID].Valuation.IsZero())
}

func TestReconcile_DetectaDescuadre(t *testing.T) {
	store, a, b, _ := seedValuation(t)
	uc := NewStockQueryUseCase(store)

	rep, err := uc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, rep.Consistent)
	assert.Equal(t, 3, rep.Checked)
	assert.Empty(t, rep.Mismatches)

	b.CurrentStock = 9
	require.NoError(t, store.Products().UpdateStock(context.Background(), b))

	rep, err = uc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.False(t, rep.Consistent)
	require.Len(t, rep.Mismatches, 1)
	assert.Equal(t, b.ID, rep.Mismatches[0].ProductID)
	assert.Equal(t, 9, rep.Mismatches[0].CurrentStock)
	assert.Equal(t, 4, rep.Mismatches[0].BatchStock)
	assert.NotEqual(t, a.ID, rep.Mismatches[0].ProductID)
}

// ─── MovementQueryUseCase ────────────────────────────────────────────────────

func seedMovements(t *testing.T) (*memstore.Store, *entity.Product, *entity.Product) {
	t.Helper()
	store := memstore.New()
	a := store.MustProduct("A-1", "Alfa", 0, 0)
	b := store.MustProduct("B-1", "Beta", 0, 0)
	ba := store.MustBatch(a.ID, "LOT-A", jan1, 10, 10, "1")
	bb := store.MustBatch(b.ID, "LOT-B", jan1, 10, 10, "2")

	add := func(p *entity.Product, batch *entity.Batch, typ string, qty int, at time.Time) {
		require.NoError(t, store.Movements().Create(context.Background(), &entity.StockMovement{
			ID: at.Format(time.RFC3339) + p.ID, ProductID: p.ID, BatchID: batch.ID, Type: typ,
			Quantity: qty, UnitPrice: batch.UnitCost, Date: at, CreatedAt: at,
		}))
	}
	add(a, ba, entity.MovementTypeIn, 10, time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC))
	add(a, ba, entity.MovementTypeOut, 3, time.Date(2024, 2, 10, 23, 59, 0, 0, time.UTC))
	add(b, bb, entity.MovementTypeIn, 10, time.Date(2024, 2, 5, 8, 0, 0, 0, time.UTC))
	add(a, ba, entity.MovementTypeOut, 2, time.Date(2024, 2, 20, 8, 0, 0, 0, time.UTC))
	return store, a, b
}

func TestMovementSearch_Filtros(t *testing.T) {
	store, a, _ := seedMovements(t)
	uc := NewMovementQueryUseCase(store)
	ctx := context.Background()

	all, err := uc.Search(ctx, dto.MovementSearchRequest{})
	require.NoError(t, err)
	assert.Equal(t, 4, all.Page.Total)
	assert.Equal(t, 20, all.Page.Limit, "límite por defecto")
	assert.True(t, all.Items[0].Date.After(all.Items[1].Date), "más recientes primero")

	out, err := uc.Search(ctx, dto.MovementSearchRequest{ProductID: a.ID, Type: entity.MovementTypeOut})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total)

	out, err = uc.Search(ctx, dto.MovementSearchRequest{ProductReference: "B-1"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Page.Total)
	assert.Equal(t, "LOT-B", out.Items[0].LotNumber)
	assert.Equal(t, "Beta", out.Items[0].ProductName)

	out, err = uc.Search(ctx, dto.MovementSearchRequest{LotNumber: "LOT-A"})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Page.Total)
}

func TestMovementSearch_HastaEsInclusivo(t *testing.T) {
	store, _, _ := seedMovements(t)
	out, err := NewMovementQueryUseCase(store).Search(context.Background(),
		dto.MovementSearchRequest{From: "2024-02-05", To: "2024-02-10"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total, "incluye el movimiento de las 23:59 del día to")
}

func TestMovementSearch_Paginacion(t *testing.T) {
	store, _, _ := seedMovements(t)
	out, err := NewMovementQueryUseCase(store).Search(context.Background(),
		dto.MovementSearchRequest{Limit: 3, Offset: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, out.Page.Total)
	require.Len(t, out.Items, 1)
	assert.Equal(t, entity.MovementTypeIn, out.Items[0].Type, "el más antiguo queda en la última página")
}

func TestMovementSearch_CriteriosInvalidos(t *testing.T) {
	uc := NewMovementQueryUseCase(memstore.New())
	ctx := context.Background()
	cases := []dto.MovementSearchRequest{
		{Type: "ADJUSTMENT"},
		{From: "01/02/2024"},
		{To: "2024-13-01"},
		{From: "2024-02-10", To: "2024-02-01"},
	}
	for _, in := range cases {
		_, err := uc.Search(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
}

func TestMovementsByProduct(t *testing.T) {
	store, a, _ := seedMovements(t)
	uc := NewMovementQueryUseCase(store)

	out, err := uc.ByProduct(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, 2, out[0].Quantity, "el más reciente primero")
	assert.True(t, decimal.RequireFromString("2").Equal(out[0].TotalValue))

	_, err = uc.ByProduct(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
