package procurement

import (
	"context"

	"github.com/jhoicas/gestion-stock-api/internal/application/dto"
	"github.com/jhoicas/gestion-stock-api/internal/application/ports"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
)

// enricher resuelve proveedor y productos de las órdenes con una caché por llamada,
// para no repetir la misma consulta al mapear listas.
type enricher struct {
	repos     ports.Repositories
	suppliers map[string]*entity.Supplier
	products  map[string]*entity.Product
}

func newEnricher(repos ports.Repositories) *enricher {
	return &enricher{
		repos:     repos,
		suppliers: make(map[string]*entity.Supplier),
		products:  make(map[string]*entity.Product),
	}
}

func (e *enricher) supplier(ctx context.Context, id string) (*entity.Supplier, error) {
	if s, ok := e.suppliers[id]; ok {
		return s, nil
	}
	s, err := e.repos.Suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e.suppliers[id] = s
	return s, nil
}

func (e *enricher) product(ctx context.Context, id string) (*entity.Product, error) {
	if p, ok := e.products[id]; ok {
		return p, nil
	}
	p, err := e.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e.products[id] = p
	return p, nil
}

func (e *enricher) response(ctx context.Context, o *entity.PurchaseOrder) (*dto.PurchaseOrderResponse, error) {
	out := &dto.PurchaseOrderResponse{
		ID:            o.ID,
		Number:        o.Number,
		OrderDate:     o.OrderDate,
		ReceptionDate: o.ReceptionDate,
		SupplierID:    o.SupplierID,
		Status:        o.Status,
		TotalAmount:   o.TotalAmount,
		Notes:         o.Notes,
		Lines:         make([]dto.OrderLineResponse, 0, len(o.Lines)),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	s, err := e.supplier(ctx, o.SupplierID)
	if err != nil {
		return nil, err
	}
	if s != nil {
		out.SupplierName = s.CompanyName
	}
	for _, l := range o.Lines {
		line := dto.OrderLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		}
		p, err := e.product(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			line.ProductReference = p.Reference
			line.ProductName = p.Name
		}
		out.Lines = append(out.Lines, line)
	}
	return out, nil
}
