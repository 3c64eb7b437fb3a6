package inventory

import (
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Valuate suma saldo * costo de los lotes no agotados y devuelve también las unidades.
// Los lotes agotados se excluyen explícitamente.
func Valuate(batches []*entity.Batch) (quantity int, value decimal.Decimal) {
	value = decimal.Zero
	for _, b := range batches {
		if b.IsExhausted() {
			continue
		}
		quantity += b.RemainingQuantity
		value = value.Add(b.Valuation())
	}
	return quantity, value
}

// ValuateByProduct agrupa Valuate por ProductID.
func ValuateByProduct(batches []*entity.Batch) map[string]ProductValuation {
	out := make(map[string]ProductValuation)
	for _, b := range batches {
		if b.IsExhausted() {
			continue
		}
		pv := out[b.ProductID]
		pv.Quantity += b.RemainingQuantity
		pv.Value = pv.Value.Add(b.Valuation())
		pv.Batches++
		out[b.ProductID] = pv
	}
	return out
}

// ProductValuation unidades y valor FIFO de un producto.
type ProductValuation struct {
	Quantity int
	Value    decimal.Decimal
	Batches  int
}
