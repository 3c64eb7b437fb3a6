package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-stock-api/internal/application/dto"
	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia por recepciones y salidas.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto con stock 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	ref := strings.TrimSpace(in.Reference)
	exists, err := uc.repo.ExistsByReference(ctx, ref, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Duplicate("referencia", ref)
	}
	if in.ReorderThreshold < 0 {
		return nil, domain.Invalid("el punto de pedido no puede ser negativo")
	}
	now := time.Now()
	product := &entity.Product{
		ID:               uuid.New().String(),
		Reference:        ref,
		Name:             in.Name,
		Description:      in.Description,
		UnitPrice:        in.UnitPrice,
		Category:         in.Category,
		CurrentStock:     0,
		ReorderThreshold: in.ReorderThreshold,
		UnitOfMeasure:    in.UnitOfMeasure,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetStock stock actual y estado de alerta del producto.
func (uc *ProductUseCase) GetStock(ctx context.Context, id string) (*dto.ProductStockResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ProductStockResponse{
		ProductID:        p.ID,
		Reference:        p.Reference,
		CurrentStock:     p.CurrentStock,
		ReorderThreshold: p.ReorderThreshold,
		BelowThreshold:   p.IsBelowReorderThreshold(),
	}, nil
}

// Update actualiza los datos descriptivos. No permite modificar el stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Reference != nil {
		ref := strings.TrimSpace(*in.Reference)
		if ref != product.Reference {
			exists, err := uc.repo.ExistsByReference(ctx, ref, product.ID)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, domain.Duplicate("referencia", ref)
			}
			product.Reference = ref
		}
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.UnitPrice != nil {
		product.UnitPrice = *in.UnitPrice
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.ReorderThreshold != nil {
		if *in.ReorderThreshold < 0 {
			return nil, domain.Invalid("el punto de pedido no puede ser negativo")
		}
		product.ReorderThreshold = *in.ReorderThreshold
	}
	if in.UnitOfMeasure != nil {
		product.UnitOfMeasure = *in.UnitOfMeasure
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: toProductResponses(list),
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Search busca por referencia, nombre o categoría.
func (uc *ProductUseCase) Search(ctx context.Context, keyword string) ([]dto.ProductResponse, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, domain.Invalid("el parámetro keyword es obligatorio")
	}
	list, err := uc.repo.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// ListByCategory productos de una categoría.
func (uc *ProductUseCase) ListByCategory(ctx context.Context, category string) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// Delete elimina un producto sin lotes ni movimientos (si los tiene el repositorio devuelve ErrConflict).
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto", "id", id)
	}
	return p, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:               p.ID,
		Reference:        p.Reference,
		Name:             p.Name,
		Description:      p.Description,
		UnitPrice:        p.UnitPrice,
		Category:         p.Category,
		CurrentStock:     p.CurrentStock,
		ReorderThreshold: p.ReorderThreshold,
		UnitOfMeasure:    p.UnitOfMeasure,
		BelowThreshold:   p.IsBelowReorderThreshold(),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return out
}
