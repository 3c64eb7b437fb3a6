package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock-api/internal/domain"
)

// ─── Orden de compra ─────────────────────────────────────────────────────────

func TestNewOrderLine_Subtotal(t *testing.T) {
	l, err := NewOrderLine("l1", "p1", 4, decimal.RequireFromString("2.25"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("9.00").Equal(l.Subtotal))

	_, err = NewOrderLine("l2", "p1", 0, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = NewOrderLine("l3", "p1", 1, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el precio debe ser positivo")
}

func TestPurchaseOrder_ReplaceLinesRecalculaTotal(t *testing.T) {
	o := &PurchaseOrder{ID: "o1", Number: "PO-1", Status: OrderStatusPending}
	l1, _ := NewOrderLine("l1", "p1", 2, decimal.NewFromInt(10))
	l2, _ := NewOrderLine("l2", "p2", 3, decimal.RequireFromString("1.50"))
	o.ReplaceLines([]OrderLine{l1, l2})

	assert.True(t, decimal.RequireFromString("24.50").Equal(o.TotalAmount))
	for _, l := range o.Lines {
		assert.Equal(t, "o1", l.OrderID)
	}
}

func TestPurchaseOrder_CicloCompleto(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	o := &PurchaseOrder{Number: "PO-1", Status: OrderStatusPending}

	assert.False(t, o.CanBeReceived(), "una orden pendiente no se recibe")
	require.NoError(t, o.Validate(now))
	assert.Equal(t, OrderStatusValidated, o.Status)
	assert.True(t, o.IsModifiable())

	reception := now.Add(48 * time.Hour)
	require.NoError(t, o.MarkReceived(reception, "  caja dañada ", now))
	assert.Equal(t, OrderStatusReceived, o.Status)
	require.NotNil(t, o.ReceptionDate)
	assert.True(t, o.ReceptionDate.Equal(reception))
	assert.Equal(t, "Recepción: caja dañada", o.Notes)
	assert.False(t, o.IsModifiable())
	assert.False(t, o.CanBeDeleted(), "una orden recibida ya generó lotes")

	assert.ErrorIs(t, o.Cancel(now), domain.ErrInvalidState)
	assert.ErrorIs(t, o.Validate(now), domain.ErrInvalidState)
	assert.ErrorIs(t, o.MarkReceived(now, "", now), domain.ErrInvalidState, "doble recepción")
}

func TestPurchaseOrder_NotasDeRecepcionSeAgregan(t *testing.T) {
	o := &PurchaseOrder{Number: "PO-2", Status: OrderStatusValidated, Notes: "urgente"}
	require.NoError(t, o.MarkReceived(time.Now(), "completo", time.Now()))
	assert.Equal(t, "urgente\nRecepción: completo", o.Notes)
}

func TestPurchaseOrder_Cancel(t *testing.T) {
	for _, st := range []string{OrderStatusPending, OrderStatusValidated} {
		o := &PurchaseOrder{Number: "PO", Status: st}
		require.NoError(t, o.Cancel(time.Now()), "desde %s", st)
		assert.Equal(t, OrderStatusCancelled, o.Status)
		assert.True(t, o.CanBeDeleted())
		assert.ErrorIs(t, o.Cancel(time.Now()), domain.ErrInvalidState, "anular dos veces")
	}
}

func TestIsValidOrderStatus(t *testing.T) {
	assert.True(t, IsValidOrderStatus(OrderStatusReceived))
	assert.False(t, IsValidOrderStatus("BROUILLON"))
}

// ─── Bon de salida ───────────────────────────────────────────────────────────

func TestExitSlip_Transiciones(t *testing.T) {
	now := time.Now()
	s := &ExitSlip{ID: "s1", Number: "BS-1", Status: ExitSlipStatusDraft}
	s.ReplaceLines([]ExitSlipLine{{ID: "l1", ProductID: "p1", RequestedQuantity: 3}})
	assert.Equal(t, "s1", s.Lines[0].ExitSlipID)
	assert.True(t, s.IsModifiable())

	require.NoError(t, s.MarkValidated(now))
	assert.Equal(t, ExitSlipStatusValidated, s.Status)
	require.NotNil(t, s.ValidatedAt)
	assert.False(t, s.IsModifiable())

	assert.ErrorIs(t, s.MarkValidated(now), domain.ErrInvalidState, "doble validación")
	assert.ErrorIs(t, s.Cancel(now), domain.ErrInvalidState, "un bon validado no se revierte")
}

func TestExitSlip_CancelBorrador(t *testing.T) {
	s := &ExitSlip{Number: "BS-2", Status: ExitSlipStatusDraft}
	require.NoError(t, s.Cancel(time.Now()))
	assert.Equal(t, ExitSlipStatusCancelled, s.Status)
	assert.ErrorIs(t, s.MarkValidated(time.Now()), domain.ErrInvalidState)
}

func TestIsValidExitReason(t *testing.T) {
	assert.True(t, IsValidExitReason(ExitReasonMaintenance))
	assert.False(t, IsValidExitReason("VENTA"))
}

// ─── Proveedor ───────────────────────────────────────────────────────────────

func TestSupplierValidate(t *testing.T) {
	valid := func() *Supplier {
		return &Supplier{CompanyName: "Acme", Email: "a@acme.ma", Phone: "+212600000000", ICE: "001234567000089"}
	}
	require.NoError(t, valid().Validate())

	s := valid()
	s.Phone = ""
	assert.NoError(t, s.Validate(), "el teléfono es opcional")

	s = valid()
	s.Phone = "12-34"
	assert.ErrorIs(t, s.Validate(), domain.ErrInvalidInput)

	s = valid()
	s.ICE = "12345"
	assert.ErrorIs(t, s.Validate(), domain.ErrInvalidInput)

	s = valid()
	s.CompanyName = "  "
	assert.ErrorIs(t, s.Validate(), domain.ErrInvalidInput)

	s = valid()
	s.Email = ""
	assert.ErrorIs(t, s.Validate(), domain.ErrInvalidInput)
}

// ─── Movimiento ──────────────────────────────────────────────────────────────

func TestStockMovement_TotalValue(t *testing.T) {
	m := &StockMovement{Type: MovementTypeOut, Quantity: 3, UnitPrice: decimal.RequireFromString("4.10")}
	assert.True(t, decimal.RequireFromString("12.30").Equal(m.TotalValue()))
	assert.True(t, IsValidMovementType(MovementTypeIn))
	assert.False(t, IsValidMovementType("ADJUSTMENT"))
}
