package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

// LockProducts bloquea (SELECT FOR UPDATE) los productos indicados dentro de la tx en curso.
// Los ids se recorren ordenados y sin repetir: dos operaciones concurrentes sobre los mismos
// productos toman los bloqueos en el mismo orden y no se interbloquean.
// Si algún producto no existe devuelve NotFound sin haber escrito nada.
func LockProducts(ctx context.Context, products repository.ProductRepository, ids []string) (map[string]*entity.Product, error) {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sort.Strings(uniq)

	locked := make(map[string]*entity.Product, len(uniq))
	for _, id := range uniq {
		p, err := products.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NotFound("producto", "id", id)
		}
		locked[id] = p
	}
	return locked, nil
}
