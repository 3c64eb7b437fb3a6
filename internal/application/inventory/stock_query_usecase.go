package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/gestion-stock-api/internal/application/dto"
	"github.com/jhoicas/gestion-stock-api/internal/application/ports"
	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/inventory"
	"golang.org/x/sync/singleflight"
)

// StockQueryUseCase lecturas de valorización FIFO y alertas. Nunca escribe: todo corre
// en una tx de solo lectura. Las lecturas idénticas concurrentes se agrupan con singleflight
// (no es una caché: cada llamada posterior vuelve a leer la BD).
type StockQueryUseCase struct {
	tx    ports.TxRunner
	group singleflight.Group
	now   func() time.Time
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(tx ports.TxRunner) *StockQueryUseCase {
	return &StockQueryUseCase{tx: tx, now: time.Now}
}

// shared agrupa lecturas idénticas concurrentes. La lectura compartida no hereda la
// cancelación de quien la inició; cada llamador deja de esperar cuando vence su propio ctx.
func (uc *StockQueryUseCase) shared(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	ch := uc.group.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GlobalValuation suma saldo * costo de todos los lotes con saldo.
func (uc *StockQueryUseCase) GlobalValuation(ctx context.Context) (*dto.GlobalValuationResponse, error) {
	v, err := uc.shared(ctx, "global-valuation", func(ctx context.Context) (any, error) {
		var out dto.GlobalValuationResponse
		err := uc.tx.RunReadOnly(ctx, func(ctx context.Context, repos ports.Repositories) error {
			batches, err := repos.Batches.ListAvailable(ctx)
			if err != nil {
				return err
			}
			out.TotalQuantity, out.TotalValue = inventory.Valuate(batches)
			out.Batches = len(batches)
			return nil
		})
		out.ComputedAt = uc.now()
		return &out, err
	})
	if err != nil {
		return nil, err
	}
	res := *v.(*dto.GlobalValuationResponse)
	return &res, nil
}

// ProductValuation lotes FIFO con saldo del producto, con cantidad y valor totales.
func (uc *StockQueryUseCase) ProductValuation(ctx context.Context, productID string) (*dto.ProductValuationResponse, error) {
	var out *dto.ProductValuationResponse
	err := uc.tx.RunReadOnly(ctx, func(ctx context.Context, repos ports.Repositories) error {
		p, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound("producto", "id", productID)
		}
		batches, err := repos.Batches.ListAvailableFIFO(ctx, productID)
		if err != nil {
			return err
		}
		qty, value := inventory.Valuate(batches)
		out = &dto.ProductValuationResponse{
			ProductID:     p.ID,
			Reference:     p.Reference,
			Name:          p.Name,
			CurrentStock:  p.CurrentStock,
			TotalQuantity: qty,
			TotalValue:    value,
			Batches:       make([]dto.BatchResponse, 0, len(batches)),
		}
		for _, b := range batches {
			out.Batches = append(out.Batches, ToBatchResponse(b))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Alerts productos con stock estrictamente menor a su punto de pedido, por nombre.
func (uc *StockQueryUseCase) Alerts(ctx context.Context) ([]dto.StockAlertResponse, error) {
	v, err := uc.shared(ctx, "alerts", func(ctx context.Context) (any, error) {
		var products []*entity.Product
		err := uc.tx.RunReadOnly(ctx, func(ctx context.Context, repos ports.Repositories) error {
			var err error
			products, err = repos.Products.ListBelowReorderThreshold(ctx)
			return err
		})
		if err != nil {
			return nil, err
		}
		alerts := make([]dto.StockAlertResponse, 0, len(products))
		for _, p := range products {
			if !p.IsBelowReorderThreshold() {
				continue
			}
			alerts = append(alerts, dto.StockAlertResponse{
				ProductID:        p.ID,
				Reference:        p.Reference,
				Name:             p.Name,
				Category:         p.Category,
				CurrentStock:     p.CurrentStock,
				ReorderThreshold: p.ReorderThreshold,
				Shortfall:        p.Shortfall(),
			})
		}
		return alerts, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]dto.StockAlertResponse(nil), v.([]dto.StockAlertResponse)...), nil
}

// GlobalState estado de stock por producto: disponible, valor FIFO, punto de pedido y alerta.
func (uc *StockQueryUseCase) GlobalState(ctx context.Context) ([]dto.StockStateResponse, error) {
	v, err := uc.shared(ctx, "global-state", func(ctx context.Context) (any, error) {
		var (
			products []*entity.Product
			byProd   map[string]inventory.ProductValuation
		)
		err := uc.tx.RunReadOnly(ctx, func(ctx context.Context, repos ports.Repositories) error {
			var err error
			if products, err = repos.Products.ListAll(ctx); err != nil {
				return err
			}
			batches, err := repos.Batches.ListAvailable(ctx)
			if err != nil {
				return err
			}
			byProd = inventory.ValuateByProduct(batches)
			return nil
		})
		if err != nil {
			return nil, err
		}
		out := make([]dto.StockStateResponse, 0, len(products))
		for _, p := range products {
			pv := byProd[p.ID]
			out = append(out, dto.StockStateResponse{
				ProductID:        p.ID,
				Reference:        p.Reference,
				Name:             p.Name,
				Category:         p.Category,
				AvailableStock:   p.CurrentStock,
				Valuation:        pv.Value,
				ReorderThreshold: p.ReorderThreshold,
				InAlert:          p.IsBelowReorderThreshold(),
			})
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]dto.StockStateResponse(nil), v.([]dto.StockStateResponse)...), nil
}

// Reconcile compara el stock de cada producto con la suma de saldos de sus lotes.
func (uc *StockQueryUseCase) Reconcile(ctx context.Context) (*dto.ConsistencyResponse, error) {
	out := &dto.ConsistencyResponse{Mismatches: []dto.StockMismatchResponse{}}
	err := uc.tx.RunReadOnly(ctx, func(ctx context.Context, repos ports.Repositories) error {
		products, err := repos.Products.ListAll(ctx)
		if err != nil {
			return err
		}
		batches, err := repos.Batches.ListAvailable(ctx)
		if err != nil {
			return err
		}
		byProd := inventory.ValuateByProduct(batches)
		out.Checked = len(products)
		for _, p := range products {
			if got := byProd[p.ID].Quantity; got != p.CurrentStock {
				out.Mismatches = append(out.Mismatches, dto.StockMismatchResponse{
					ProductID:    p.ID,
					Reference:    p.Reference,
					CurrentStock: p.CurrentStock,
					BatchStock:   got,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Consistent = len(out.Mismatches) == 0
	return out, nil
}
