package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
)

// MovementCriteria filtros tipados de búsqueda de movimientos; los campos vacíos no filtran.
type MovementCriteria struct {
	ProductID        string
	ProductReference string
	Type             string // IN | OUT
	LotNumber        string
	From             *time.Time // inclusive
	To               *time.Time // exclusive
}

// MovementDetail movimiento con los datos de producto y lote ya resueltos (lectura).
type MovementDetail struct {
	entity.StockMovement
	ProductReference string
	ProductName      string
	LotNumber        string
}

// StockMovementRepository define el puerto del libro de movimientos (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct movimientos del producto, más recientes primero.
	ListByProduct(ctx context.Context, productID string) ([]*MovementDetail, error)
	// ListByExitSlip movimientos OUT generados por un bon, en orden de creación.
	ListByExitSlip(ctx context.Context, exitSlipID string) ([]*MovementDetail, error)
	// Search aplica criteria, ordena por fecha descendente y pagina; devuelve también el total.
	Search(ctx context.Context, criteria MovementCriteria, limit, offset int) ([]*MovementDetail, int, error)
}
