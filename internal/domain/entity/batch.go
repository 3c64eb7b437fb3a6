package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Batch es un lote: mercancía ingresada en una recepción con su costo unitario de compra.
// Invariante: 0 <= RemainingQuantity <= InitialQuantity. Nunca se elimina.
type Batch struct {
	ID                string
	LotNumber         string // único
	ProductID         string
	EntryDate         time.Time // orden FIFO
	InitialQuantity   int
	RemainingQuantity int
	UnitCost          decimal.Decimal
	PurchaseOrderID   string // vacío si el lote no viene de una orden
	CreatedAt         time.Time
}

// NewBatch crea un lote completo (remaining = initial).
func NewBatch(id, lotNumber, productID, purchaseOrderID string, entryDate time.Time, quantity int, unitCost decimal.Decimal) (*Batch, error) {
	if quantity <= 0 {
		return nil, domain.Invalid("la cantidad del lote debe ser positiva, recibido %d", quantity)
	}
	if unitCost.IsNegative() {
		return nil, domain.Invalid("el costo unitario del lote no puede ser negativo")
	}
	return &Batch{
		ID:                id,
		LotNumber:         lotNumber,
		ProductID:         productID,
		EntryDate:         entryDate,
		InitialQuantity:   quantity,
		RemainingQuantity: quantity,
		UnitCost:          unitCost,
		PurchaseOrderID:   purchaseOrderID,
		CreatedAt:         time.Now(),
	}, nil
}

// Consume retira quantity del saldo del lote y devuelve el saldo resultante.
// Pedir más que el saldo es un error de programación del motor FIFO.
func (b *Batch) Consume(quantity int) (int, error) {
	if quantity <= 0 {
		return 0, domain.Invalid("la cantidad a consumir debe ser positiva, recibido %d", quantity)
	}
	if quantity > b.RemainingQuantity {
		return 0, fmt.Errorf("%w: lote %s, saldo %d, solicitado %d",
			domain.ErrInsufficientBatchQuantity, b.LotNumber, b.RemainingQuantity, quantity)
	}
	b.RemainingQuantity -= quantity
	return b.RemainingQuantity, nil
}

// IsExhausted indica que el lote no tiene saldo.
func (b *Batch) IsExhausted() bool {
	return b.RemainingQuantity == 0
}

// Valuation saldo * costo unitario.
func (b *Batch) Valuation() decimal.Decimal {
	return b.UnitCost.Mul(decimal.NewFromInt(int64(b.RemainingQuantity)))
}
