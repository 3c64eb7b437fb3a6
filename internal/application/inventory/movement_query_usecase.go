package inventory

import (
	"context"

	"github.com/jhoicas/gestion-stock-api/internal/application/dto"
	"github.com/jhoicas/gestion-stock-api/internal/application/ports"
	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

// MovementQueryUseCase consultas sobre el libro de movimientos.
type MovementQueryUseCase struct {
	tx ports.TxRunner
}

// NewMovementQueryUseCase construye el caso de uso.
func NewMovementQueryUseCase(tx ports.TxRunner) *MovementQueryUseCase {
	return &MovementQueryUseCase{tx: tx}
}

// Search filtra con criterios tipados; To es inclusivo (hasta el final de ese día).
func (uc *MovementQueryUseCase) Search(ctx context.Context, in dto.MovementSearchRequest) (*dto.MovementListResponse, error) {
	criteria, err := toCriteria(in)
	if err != nil {
		return nil, err
	}
	page := dto.PageRequest{Limit: in.Limit, Offset: in.Offset}
	page.DefaultPage()

	var (
		rows  []*repository.MovementDetail
		total int
	)
	err = uc.tx.RunReadOnly(ctx, func(ctx context.Context, repos ports.Repositories) error {
		var err error
		rows, total, err = repos.Movements.Search(ctx, criteria, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.MovementResponse, 0, len(rows))
	for _, m := range rows {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ByProduct historial completo del producto, más reciente primero.
func (uc *MovementQueryUseCase) ByProduct(ctx context.Context, productID string) ([]dto.MovementResponse, error) {
	var rows []*repository.MovementDetail
	err := uc.tx.RunReadOnly(ctx, func(ctx context.Context, repos ports.Repositories) error {
		p, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound("producto", "id", productID)
		}
		rows, err = repos.Movements.ListByProduct(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

func toCriteria(in dto.MovementSearchRequest) (repository.MovementCriteria, error) {
	c := repository.MovementCriteria{
		ProductID:        in.ProductID,
		ProductReference: in.ProductReference,
		Type:             in.Type,
		LotNumber:        in.LotNumber,
	}
	if c.Type != "" && !entity.IsValidMovementType(c.Type) {
		return c, domain.Invalid("tipo de movimiento desconocido %q", c.Type)
	}
	if in.From != "" {
		from, err := dto.ParseDate(in.From)
		if err != nil {
			return c, domain.Invalid("fecha from inválida %q", in.From)
		}
		c.From = &from
	}
	if in.To != "" {
		to, err := dto.ParseDate(in.To)
		if err != nil {
			return c, domain.Invalid("fecha to inválida %q", in.To)
		}
		end := to.AddDate(0, 0, 1)
		c.To = &end
	}
	if c.From != nil && c.To != nil && !c.From.Before(*c.To) {
		return c, domain.Invalid("el rango de fechas está invertido")
	}
	return c, nil
}
