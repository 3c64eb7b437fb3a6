package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
//
//	PENDING --validate--> VALIDATED --receive--> RECEIVED
//	PENDING|VALIDATED --cancel--> CANCELLED
const (
	OrderStatusPending   = "PENDING"
	OrderStatusValidated = "VALIDATED"
	OrderStatusReceived  = "RECEIVED"
	OrderStatusCancelled = "CANCELLED"
)

// IsValidOrderStatus indica si s es un estado de orden conocido.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusValidated, OrderStatusReceived, OrderStatusCancelled:
		return true
	}
	return false
}

// PurchaseOrder cabecera de una orden de compra a un proveedor.
type PurchaseOrder struct {
	ID            string
	Number        string // único
	OrderDate     time.Time
	ReceptionDate *time.Time
	SupplierID    string
	Status        string
	TotalAmount   decimal.Decimal
	Notes         string
	Lines         []OrderLine
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderLine línea de una orden: producto, cantidad y precio unitario pactado.
type OrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// NewOrderLine calcula el subtotal de la línea.
func NewOrderLine(id, productID string, quantity int, unitPrice decimal.Decimal) (OrderLine, error) {
	if quantity <= 0 {
		return OrderLine{}, domain.Invalid("la cantidad de la línea debe ser positiva, recibido %d", quantity)
	}
	if !unitPrice.IsPositive() {
		return OrderLine{}, domain.Invalid("el precio unitario de la línea debe ser positivo")
	}
	return OrderLine{
		ID:        id,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Subtotal:  unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// ReplaceLines reemplaza las líneas y recalcula el total.
func (o *PurchaseOrder) ReplaceLines(lines []OrderLine) {
	o.Lines = lines
	for i := range o.Lines {
		o.Lines[i].OrderID = o.ID
	}
	o.RecalculateTotal()
}

// RecalculateTotal suma los subtotales de las líneas.
func (o *PurchaseOrder) RecalculateTotal() {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal)
	}
	o.TotalAmount = total
}

// IsModifiable solo PENDING y VALIDATED admiten edición.
func (o *PurchaseOrder) IsModifiable() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusValidated
}

// CanBeDeleted una orden recibida ya generó lotes y movimientos.
func (o *PurchaseOrder) CanBeDeleted() bool {
	return o.Status != OrderStatusReceived
}

// CanBeReceived solo una orden VALIDATED puede recibirse.
func (o *PurchaseOrder) CanBeReceived() bool {
	return o.Status == OrderStatusValidated
}

// Validate PENDING -> VALIDATED.
func (o *PurchaseOrder) Validate(now time.Time) error {
	if o.Status != OrderStatusPending {
		return domain.InvalidState("la orden "+o.Number, o.Status, "validar")
	}
	o.Status = OrderStatusValidated
	o.UpdatedAt = now
	return nil
}

// Cancel PENDING|VALIDATED -> CANCELLED.
func (o *PurchaseOrder) Cancel(now time.Time) error {
	if o.Status == OrderStatusReceived || o.Status == OrderStatusCancelled {
		return domain.InvalidState("la orden "+o.Number, o.Status, "anular")
	}
	o.Status = OrderStatusCancelled
	o.UpdatedAt = now
	return nil
}

// MarkReceived VALIDATED -> RECEIVED; agrega las notas de recepción a las observaciones.
func (o *PurchaseOrder) MarkReceived(receptionDate time.Time, notes string, now time.Time) error {
	if !o.CanBeReceived() {
		return domain.InvalidState("la orden "+o.Number, o.Status, "recibir")
	}
	o.Status = OrderStatusReceived
	o.ReceptionDate = &receptionDate
	if n := strings.TrimSpace(notes); n != "" {
		if o.Notes == "" {
			o.Notes = "Recepción: " + n
		} else {
			o.Notes += "\nRecepción: " + n
		}
	}
	o.UpdatedAt = now
	return nil
}
