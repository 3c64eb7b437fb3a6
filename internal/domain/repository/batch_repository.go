package repository

import (
	"context"

	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	// UpdateRemaining persiste solo remaining_quantity; el resto del lote es inmutable.
	UpdateRemaining(ctx context.Context, batch *entity.Batch) error
	ExistsByLotNumber(ctx context.Context, lotNumber string) (bool, error)
	// ListAvailableFIFO lotes con saldo > 0 del producto, por fecha de entrada ascendente
	// y orden de inserción como desempate.
	ListAvailableFIFO(ctx context.Context, productID string) ([]*entity.Batch, error)
	// ListAvailable todos los lotes con saldo > 0 (valorización global), en orden FIFO.
	ListAvailable(ctx context.Context) ([]*entity.Batch, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Batch, error)
	ListByPurchaseOrder(ctx context.Context, orderID string) ([]*entity.Batch, error)
}
