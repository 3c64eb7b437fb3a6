package repository

import (
	"context"

	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
)

// SupplierFilter búsqueda de proveedores; Keyword busca en razón social, ciudad, email e ICE.
type SupplierFilter struct {
	Keyword     string
	City        string
	CompanyName string
}

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	GetByEmail(ctx context.Context, email string) (*entity.Supplier, error)
	GetByICE(ctx context.Context, ice string) (*entity.Supplier, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	ExistsByICE(ctx context.Context, ice, excludeID string) (bool, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	Delete(ctx context.Context, id string) error
	// Search por razón social ascendente; un filtro vacío lista todo.
	Search(ctx context.Context, filter SupplierFilter) ([]*entity.Supplier, error)
}
