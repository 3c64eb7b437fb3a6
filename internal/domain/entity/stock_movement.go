package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de stock.
const (
	MovementTypeIn  = "IN"  // entrada por recepción
	MovementTypeOut = "OUT" // salida por bon de salida
)

// IsValidMovementType indica si t es un tipo de movimiento conocido.
func IsValidMovementType(t string) bool {
	return t == MovementTypeIn || t == MovementTypeOut
}

// StockMovement es un asiento inmutable del libro de stock: un movimiento por lote tocado.
// Nunca se modifica ni se borra después de creado.
type StockMovement struct {
	ID                string
	ProductID         string
	BatchID           string
	Type              string // IN | OUT
	Quantity          int    // siempre positiva; el signo lo da Type
	UnitPrice         decimal.Decimal
	Date              time.Time
	PurchaseOrderID   string // IN
	ExitSlipID        string // OUT
	DocumentReference string // número de orden o de bon
	Notes             string
	CreatedBy         string // UserID
	CreatedAt         time.Time
}

// TotalValue cantidad * precio unitario.
func (m *StockMovement) TotalValue() decimal.Decimal {
	return m.UnitPrice.Mul(decimal.NewFromInt(int64(m.Quantity)))
}
