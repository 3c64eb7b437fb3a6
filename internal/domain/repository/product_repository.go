package repository

import (
	"context"

	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get devuelven (nil, nil) cuando no existe el registro.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE); serializa entradas y salidas del producto.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByReference(ctx context.Context, reference string) (*entity.Product, error)
	// ExistsByReference excludeID vacío = no excluir.
	ExistsByReference(ctx context.Context, reference, excludeID string) (bool, error)
	// Update persiste los datos descriptivos; nunca el stock.
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	Count(ctx context.Context) (int, error)
	ListAll(ctx context.Context) ([]*entity.Product, error)
	Search(ctx context.Context, keyword string) ([]*entity.Product, error)
	ListByCategory(ctx context.Context, category string) ([]*entity.Product, error)
	// ListBelowReorderThreshold productos con current_stock < reorder_threshold, por nombre.
	ListBelowReorderThreshold(ctx context.Context) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
