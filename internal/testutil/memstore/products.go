package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
)

type productRepo struct{ v view }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.write("products.create", func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return fmt.Errorf("%w: products_pkey", domain.ErrDuplicate)
		}
		for _, o := range st.products {
			if o.Reference == p.Reference {
				return fmt.Errorf("%w: products_reference_key", domain.ErrDuplicate)
			}
		}
		if p.CurrentStock < 0 {
			return fmt.Errorf("products_current_stock_check")
		}
		st.products[p.ID] = copyProduct(p)
		return nil
	})
}

func (r *productRepo) get(match func(p *entity.Product) bool) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.read(func(st *state) error {
		for _, p := range st.products {
			if match(p) {
				out = copyProduct(p)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.get(func(p *entity.Product) bool { return p.ID == id })
}

func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) GetByReference(_ context.Context, reference string) (*entity.Product, error) {
	return r.get(func(p *entity.Product) bool { return p.Reference == reference })
}

func (r *productRepo) ExistsByReference(_ context.Context, reference, excludeID string) (bool, error) {
	p, err := r.get(func(p *entity.Product) bool { return p.Reference == reference && p.ID != excludeID })
	return p != nil, err
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.v.write("products.update", func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return nil
		}
		for _, o := range st.products {
			if o.ID != p.ID && o.Reference == p.Reference {
				return fmt.Errorf("%w: products_reference_key", domain.ErrDuplicate)
			}
		}
		c := copyProduct(p)
		c.CurrentStock = cur.CurrentStock
		st.products[p.ID] = c
		return nil
	})
}

func (r *productRepo) UpdateStock(_ context.Context, p *entity.Product) error {
	return r.v.write("products.update_stock", func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return fmt.Errorf("update product stock: producto %s no existe", p.ID)
		}
		if p.CurrentStock < 0 {
			return fmt.Errorf("update product stock: products_current_stock_check")
		}
		cur.CurrentStock = p.CurrentStock
		cur.UpdatedAt = p.UpdatedAt
		return nil
	})
}

func (r *productRepo) filter(match func(p *entity.Product) bool) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0)
	err := r.v.read(func(st *state) error {
		for _, p := range st.products {
			if match(p) {
				out = append(out, copyProduct(p))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Reference < out[j].Reference
	})
	return out, err
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	all, err := r.filter(func(*entity.Product) bool { return true })
	if err != nil {
		return nil, err
	}
	return page(all, limit, offset), nil
}

func (r *productRepo) Count(_ context.Context) (int, error) {
	n := 0
	err := r.v.read(func(st *state) error {
		n = len(st.products)
		return nil
	})
	return n, err
}

func (r *productRepo) ListAll(_ context.Context) ([]*entity.Product, error) {
	return r.filter(func(*entity.Product) bool { return true })
}

func (r *productRepo) Search(_ context.Context, keyword string) ([]*entity.Product, error) {
	kw := strings.ToLower(keyword)
	return r.filter(func(p *entity.Product) bool {
		return strings.Contains(strings.ToLower(p.Reference), kw) ||
			strings.Contains(strings.ToLower(p.Name), kw) ||
			strings.Contains(strings.ToLower(p.Category), kw)
	})
}

func (r *productRepo) ListByCategory(_ context.Context, category string) ([]*entity.Product, error) {
	return r.filter(func(p *entity.Product) bool { return p.Category == category })
}

func (r *productRepo) ListBelowReorderThreshold(_ context.Context) ([]*entity.Product, error) {
	return r.filter(func(p *entity.Product) bool { return p.CurrentStock < p.ReorderThreshold })
}

func (r *productRepo) Delete(_ context.Context, id string) error {
	return r.v.write("products.delete", func(st *state) error {
		for _, b := range st.batches {
			if b.ProductID == id {
				return fmt.Errorf("%w: batches_product_id_fkey", domain.ErrConflict)
			}
		}
		for _, o := range st.orders {
			for _, l := range o.Lines {
				if l.ProductID == id {
					return fmt.Errorf("%w: purchase_order_lines_product_id_fkey", domain.ErrConflict)
				}
			}
		}
		for _, s := range st.slips {
			for _, l := range s.Lines {
				if l.ProductID == id {
					return fmt.Errorf("%w: exit_slip_lines_product_id_fkey", domain.ErrConflict)
				}
			}
		}
		delete(st.products, id)
		return nil
	})
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return all[:0]
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
