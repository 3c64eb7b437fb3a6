package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Product representa un artículo del almacén.
// CurrentStock es la suma de RemainingQuantity de sus lotes; solo lo modifican
// las recepciones (IncrementStock) y las salidas FIFO (DecrementStock).
type Product struct {
	ID               string
	Reference        string // única
	Name             string
	Description      string
	UnitPrice        decimal.Decimal // precio de catálogo, no interviene en la valorización
	Category         string
	CurrentStock     int
	ReorderThreshold int // punto de pedido
	UnitOfMeasure    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IncrementStock suma quantity al stock actual.
func (p *Product) IncrementStock(quantity int) error {
	if quantity <= 0 {
		return domain.Invalid("la cantidad a ingresar debe ser positiva, recibido %d", quantity)
	}
	p.CurrentStock += quantity
	return nil
}

// DecrementStock resta quantity del stock actual. Nunca deja el stock en negativo.
func (p *Product) DecrementStock(quantity int) error {
	if quantity <= 0 {
		return domain.Invalid("la cantidad a retirar debe ser positiva, recibido %d", quantity)
	}
	if quantity > p.CurrentStock {
		return fmt.Errorf("%w: producto %s, disponible %d, solicitado %d",
			domain.ErrInsufficientProductStock, p.Reference, p.CurrentStock, quantity)
	}
	p.CurrentStock -= quantity
	return nil
}

// IsBelowReorderThreshold es estricto: stock igual al punto de pedido no alerta.
func (p *Product) IsBelowReorderThreshold() bool {
	return p.CurrentStock < p.ReorderThreshold
}

// Shortfall unidades que faltan para alcanzar el punto de pedido (0 si no hay alerta).
func (p *Product) Shortfall() int {
	if !p.IsBelowReorderThreshold() {
		return 0
	}
	return p.ReorderThreshold - p.CurrentStock
}
