package inventory

import (
	"sort"

	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
)

// Allocation cantidad a consumir de un lote concreto.
type Allocation struct {
	Batch    *entity.Batch
	Quantity int
}

// SortFIFO ordena por fecha de entrada ascendente; a igual fecha conserva el orden
// recibido (orden de inserción que entrega el repositorio).
func SortFIFO(batches []*entity.Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		return batches[i].EntryDate.Before(batches[j].EntryDate)
	})
}

// PlanFIFO calcula qué lotes consumir y cuánto de cada uno para retirar requested
// unidades de productName. No modifica los lotes: si el plan falla no hay nada que deshacer.
//
// Un lote no se toca si la cantidad pendiente ya es 0, así que el número de
// asignaciones es el número de lotes distintos afectados.
func PlanFIFO(productName string, batches []*entity.Batch, requested int) ([]Allocation, error) {
	if requested <= 0 {
		return nil, domain.Invalid("la cantidad solicitada debe ser positiva, recibido %d", requested)
	}

	available := make([]*entity.Batch, 0, len(batches))
	supply := 0
	for _, b := range batches {
		if b.IsExhausted() {
			continue
		}
		available = append(available, b)
		supply += b.RemainingQuantity
	}
	if len(available) == 0 {
		return nil, domain.NoBatchAvailable(productName)
	}
	if supply < requested {
		return nil, domain.InsufficientStock(productName, supply, requested)
	}
	SortFIFO(available)

	plan := make([]Allocation, 0, len(available))
	remaining := requested
	for _, b := range available {
		if remaining == 0 {
			break
		}
		take := min(remaining, b.RemainingQuantity)
		plan = append(plan, Allocation{Batch: b, Quantity: take})
		remaining -= take
	}
	return plan, nil
}
