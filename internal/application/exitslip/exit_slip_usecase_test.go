package exitslip

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock-api/internal/application/dto"
	"github.com/jhoicas/gestion-stock-api/internal/application/inventory"
	"github.com/jhoicas/gestion-stock-api/internal/application/ports"
	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
	"github.com/jhoicas/gestion-stock-api/internal/testutil/memstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var (
	jan1  = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan5  = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	today = time.Date(2024, 3, 15, 16, 45, 0, 0, time.UTC)
)

// fakePDF captura lo que recibe el generador.
type fakePDF struct {
	slip  *entity.ExitSlip
	moves []*repository.MovementDetail
	err   error
}

func (f *fakePDF) GenerateExitSlipPDF(slip *entity.ExitSlip, _ map[string]*entity.Product, moves []*repository.MovementDetail) ([]byte, error) {
	f.slip, f.moves = slip, moves
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4"), nil
}

type fixture struct {
	store *memstore.Store
	uc    *UseCase
	pdf   *fakePDF
	screw *entity.Product
	oil   *entity.Product
}

// newFixture: tornillo 15 u. en dos lotes (10 a 2.50 y 5 a 3), aceite 2 u. a 80.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	f := &fixture{store: store, pdf: &fakePDF{}}
	f.screw = store.MustProduct("VIS-M8", "Vis M8", 15, 5)
	store.MustBatch(f.screw.ID, "LOT-A", jan1, 10, 10, "2.50")
	store.MustBatch(f.screw.ID, "LOT-B", jan5, 5, 5, "3")
	f.oil = store.MustProduct("HUI-10W", "Huile 10W40", 2, 1)
	store.MustBatch(f.oil.ID, "LOT-H", jan1, 2, 2, "80")

	f.uc = NewUseCase(store, inventory.NewWithdrawalEngine(ports.NopMetrics{}, nil), f.pdf, nil)
	f.uc.now = func() time.Time { return today }
	return f
}

func (f *fixture) request(number string, screw, oil int) dto.ExitSlipRequest {
	in := dto.ExitSlipRequest{
		Number:   number,
		ExitDate: "2024-03-15",
		Workshop: "Atelier Montage",
		Reason:   "production",
	}
	if screw > 0 {
		in.Lines = append(in.Lines, dto.ExitSlipLineRequest{ProductID: f.screw.ID, Quantity: screw})
	}
	if oil > 0 {
		in.Lines = append(in.Lines, dto.ExitSlipLineRequest{ProductID: f.oil.ID, Quantity: oil})
	}
	return in
}

func (f *fixture) create(t *testing.T, number string, screw, oil int) *dto.ExitSlipResponse {
	t.Helper()
	s, err := f.uc.Create(context.Background(), f.request(number, screw, oil))
	require.NoError(t, err)
	return s
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.CurrentStock
}

// ─── Create / Update ─────────────────────────────────────────────────────────

func TestCreate_BonEnBorrador(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, "BS-001", 12, 1)

	assert.Equal(t, entity.ExitSlipStatusDraft, s.Status)
	assert.Equal(t, entity.ExitReasonProduction, s.Reason, "el motivo se normaliza a mayúsculas")
	require.Len(t, s.Lines, 2)
	assert.Equal(t, "VIS-M8", s.Lines[0].ProductReference)
	assert.Nil(t, s.ValidatedAt)
	assert.Equal(t, 15, f.stock(t, f.screw.ID), "crear un bon no mueve stock")
}

func TestCreate_Rechazos(t *testing.T) {
	f := newFixture(t)
	f.create(t, "BS-001", 1, 0)

	_, err := f.uc.Create(context.Background(), f.request("BS-001", 1, 0))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	cases := map[string]func(*dto.ExitSlipRequest){
		"fecha":         func(in *dto.ExitSlipRequest) { in.ExitDate = "15/03/2024" },
		"motivo":        func(in *dto.ExitSlipRequest) { in.Reason = "VENTA" },
		"taller vacío":  func(in *dto.ExitSlipRequest) { in.Workshop = "  " },
		"sin líneas":    func(in *dto.ExitSlipRequest) { in.Lines = nil },
		"cantidad cero": func(in *dto.ExitSlipRequest) { in.Lines[0].Quantity = 0 },
	}
	for name, mutate := range cases {
		in := f.request("BS-X", 1, 0)
		mutate(&in)
		_, err := f.uc.Create(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}

	in := f.request("BS-Y", 1, 0)
	in.Lines[0].ProductID = "nope"
	_, err = f.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_SoloEnBorrador(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, "BS-001", 1, 0)

	in := f.request("BS-001", 3, 1)
	in.Reason = entity.ExitReasonMaintenance
	got, err := f.uc.Update(context.Background(), s.ID, in)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 2)
	assert.Equal(t, entity.ExitReasonMaintenance, got.Reason)

	_, err = f.uc.Validate(context.Background(), s.ID, "u1")
	require.NoError(t, err)
	_, err = f.uc.Update(context.Background(), s.ID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ─── Validate ────────────────────────────────────────────────────────────────

func TestValidate_ConsumeFIFOEnTodasLasLineas(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, "BS-001", 12, 1)

	res, err := f.uc.Validate(context.Background(), s.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.ExitSlipStatusValidated, res.ExitSlip.Status)
	require.NotNil(t, res.ExitSlip.ValidatedAt)
	assert.True(t, res.ExitSlip.ValidatedAt.Equal(today))

	require.Len(t, res.Consumptions, 3)
	assert.Equal(t, "LOT-A", res.Consumptions[0].LotNumber)
	assert.Equal(t, 10, res.Consumptions[0].Quantity)
	assert.Equal(t, "LOT-B", res.Consumptions[1].LotNumber)
	assert.Equal(t, 2, res.Consumptions[1].Quantity)
	assert.Equal(t, "LOT-H", res.Consumptions[2].LotNumber)
	assert.True(t, decimal.RequireFromString("111").Equal(res.TotalValue), "25 + 6 + 80, got %s", res.TotalValue)

	assert.Equal(t, 3, f.stock(t, f.screw.ID))
	assert.Equal(t, 1, f.stock(t, f.oil.ID))

	moves, err := f.store.Movements().ListByExitSlip(context.Background(), s.ID)
	require.NoError(t, err)
	require.Len(t, moves, 3)
	for _, m := range moves {
		assert.Equal(t, entity.MovementTypeOut, m.Type)
		assert.Equal(t, "BS-001", m.DocumentReference)
		assert.Equal(t, "u1", m.CreatedBy)
	}
}

func TestValidate_LineaPosteriorFallaNoConfirmaNada(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, "BS-001", 12, 5)

	_, err := f.uc.Validate(context.Background(), s.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 15, f.stock(t, f.screw.ID), "la primera línea no se confirma")
	batches, err := f.store.Batches().ListAvailableFIFO(context.Background(), f.screw.ID)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, 10, batches[0].RemainingQuantity)

	got, err := f.uc.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ExitSlipStatusDraft, got.Status)
	moves, err := f.store.Movements().ListByExitSlip(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Empty(t, moves)
}

func TestValidate_DosLineasDelMismoProductoEncadenanLotes(t *testing.T) {
	f := newFixture(t)
	in := f.request("BS-001", 8, 0)
	in.Lines = append(in.Lines, dto.ExitSlipLineRequest{ProductID: f.screw.ID, Quantity: 6})
	s, err := f.uc.Create(context.Background(), in)
	require.NoError(t, err)

	res, err := f.uc.Validate(context.Background(), s.ID, "u1")
	require.NoError(t, err)

	// La segunda línea parte del saldo que dejó la primera.
	require.Len(t, res.Consumptions, 3)
	assert.Equal(t, "LOT-A", res.Consumptions[0].LotNumber)
	assert.Equal(t, 8, res.Consumptions[0].Quantity)
	assert.Equal(t, "LOT-A", res.Consumptions[1].LotNumber)
	assert.Equal(t, 2, res.Consumptions[1].Quantity)
	assert.Equal(t, "LOT-B", res.Consumptions[2].LotNumber)
	assert.Equal(t, 4, res.Consumptions[2].Quantity)
	assert.True(t, decimal.RequireFromString("37").Equal(res.TotalValue), "20 + 5 + 12, got %s", res.TotalValue)
	assert.Equal(t, 1, f.stock(t, f.screw.ID))

	batches, err := f.store.Batches().ListAvailableFIFO(context.Background(), f.screw.ID)
	require.NoError(t, err)
	require.Len(t, batches, 1, "LOT-A queda agotado")
	assert.Equal(t, "LOT-B", batches[0].LotNumber)
	assert.Equal(t, 1, batches[0].RemainingQuantity)

	over := f.create(t, "BS-002", 2, 0)
	_, err = f.uc.Validate(context.Background(), over.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, f.stock(t, f.screw.ID))
	moves, err := f.store.Movements().ListByExitSlip(context.Background(), over.ID)
	require.NoError(t, err)
	assert.Empty(t, moves)
}

func TestValidate_FalloDeEscrituraRevierte(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, "BS-001", 12, 1)
	f.store.FailAfter("exit_slips.update_status", 0, errors.New("conexión perdida"))

	_, err := f.uc.Validate(context.Background(), s.ID, "u1")
	require.Error(t, err)
	assert.Equal(t, 15, f.stock(t, f.screw.ID))
	assert.Equal(t, 2, f.stock(t, f.oil.ID))
}

func TestValidate_EstadosNoBorrador(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, "BS-001", 1, 0)
	_, err := f.uc.Validate(context.Background(), s.ID, "u1")
	require.NoError(t, err)

	_, err = f.uc.Validate(context.Background(), s.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "doble validación")
	assert.Equal(t, 14, f.stock(t, f.screw.ID), "la segunda validación no descuenta")

	_, err = f.uc.Validate(context.Background(), "nope", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Cancel / listados ───────────────────────────────────────────────────────

func TestCancel(t *testing.T) {
	f := newFixture(t)
	draft := f.create(t, "BS-001", 1, 0)
	c, err := f.uc.Cancel(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ExitSlipStatusCancelled, c.Status)

	_, err = f.uc.Validate(context.Background(), draft.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "un bon anulado no se valida")

	done := f.create(t, "BS-002", 1, 0)
	_, err = f.uc.Validate(context.Background(), done.ID, "u1")
	require.NoError(t, err)
	_, err = f.uc.Cancel(context.Background(), done.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "un bon validado ya movió stock")
}

func TestListByWorkshop(t *testing.T) {
	f := newFixture(t)
	f.create(t, "BS-001", 1, 0)
	other := f.request("BS-002", 1, 0)
	other.Workshop = "Maintenance"
	_, err := f.uc.Create(context.Background(), other)
	require.NoError(t, err)

	all, err := f.uc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := f.uc.ListByWorkshop(context.Background(), " Maintenance ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BS-002", got[0].Number)

	_, err = f.uc.ListByWorkshop(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── ExportPDF ───────────────────────────────────────────────────────────────

func TestExportPDF_BorradorSinConsumos(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, "BS-001", 2, 0)

	data, number, err := f.uc.ExportPDF(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "BS-001", number)
	assert.Equal(t, "%PDF-1.4", string(data))
	assert.Empty(t, f.pdf.moves)
}

func TestExportPDF_ValidadoIncluyeLotes(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, "BS-001", 12, 0)
	_, err := f.uc.Validate(context.Background(), s.ID, "u1")
	require.NoError(t, err)

	_, _, err = f.uc.ExportPDF(context.Background(), s.ID)
	require.NoError(t, err)
	require.Len(t, f.pdf.moves, 2)
	assert.Equal(t, "LOT-A", f.pdf.moves[0].LotNumber)
	assert.Equal(t, entity.ExitSlipStatusValidated, f.pdf.slip.Status)
}

func TestExportPDF_SinGenerador(t *testing.T) {
	f := newFixture(t)
	s := f.create(t, "BS-001", 1, 0)
	uc := NewUseCase(f.store, inventory.NewWithdrawalEngine(ports.NopMetrics{}, nil), nil, nil)
	_, _, err := uc.ExportPDF(context.Background(), s.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
