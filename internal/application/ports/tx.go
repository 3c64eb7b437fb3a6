package ports

import (
	"context"

	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

// Repositories repositorios atados a una misma transacción.
type Repositories struct {
	Products  repository.ProductRepository
	Batches   repository.BatchRepository
	Movements repository.StockMovementRepository
	Orders    repository.PurchaseOrderRepository
	ExitSlips repository.ExitSlipRepository
	Suppliers repository.SupplierRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ninguna escritura queda persistida.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	// RunReadOnly igual que Run pero en una transacción de solo lectura (instantánea consistente).
	RunReadOnly(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
