package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
)

// OrderFilter filtros opcionales de búsqueda de órdenes.
type OrderFilter struct {
	SupplierID string
	Status     string
	From       *time.Time // fecha de orden inclusive
	To         *time.Time // fecha de orden inclusive
}

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
// Las órdenes se devuelven siempre con sus líneas.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	ExistsByNumber(ctx context.Context, number, excludeID string) (bool, error)
	// Update reescribe cabecera y reemplaza las líneas.
	Update(ctx context.Context, order *entity.PurchaseOrder) error
	// UpdateStatus persiste estado, fecha de recepción y observaciones.
	UpdateStatus(ctx context.Context, order *entity.PurchaseOrder) error
	Delete(ctx context.Context, id string) error
	// Search lista por fecha de orden descendente; un filtro vacío lista todo.
	Search(ctx context.Context, filter OrderFilter) ([]*entity.PurchaseOrder, error)
}
