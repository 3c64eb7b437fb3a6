package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

type movementRepo struct{ v view }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.v.write("movements.create", func(st *state) error {
		if _, ok := st.products[m.ProductID]; !ok {
			return fmt.Errorf("%w: stock_movements_product_id_fkey", domain.ErrConflict)
		}
		if _, ok := st.batches[m.BatchID]; !ok {
			return fmt.Errorf("%w: stock_movements_batch_id_fkey", domain.ErrConflict)
		}
		if m.Quantity <= 0 {
			return fmt.Errorf("stock_movements_quantity_check")
		}
		c := *m
		st.movements = append(st.movements, &c)
		return nil
	})
}

type indexed struct {
	d   *repository.MovementDetail
	pos int
}

func (r *movementRepo) collect(match func(d *repository.MovementDetail) bool) ([]indexed, error) {
	var out []indexed
	err := r.v.read(func(st *state) error {
		for i, m := range st.movements {
			d := &repository.MovementDetail{StockMovement: *m}
			if p, ok := st.products[m.ProductID]; ok {
				d.ProductReference, d.ProductName = p.Reference, p.Name
			}
			if b, ok := st.batches[m.BatchID]; ok {
				d.LotNumber = b.LotNumber
			}
			if match(d) {
				out = append(out, indexed{d: d, pos: i})
			}
		}
		return nil
	})
	return out, err
}

func newestFirst(rows []indexed) []*repository.MovementDetail {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].d.Date.Equal(rows[j].d.Date) {
			return rows[i].d.Date.After(rows[j].d.Date)
		}
		return rows[i].pos > rows[j].pos
	})
	out := make([]*repository.MovementDetail, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.d)
	}
	return out
}

func (r *movementRepo) ListByProduct(_ context.Context, productID string) ([]*repository.MovementDetail, error) {
	rows, err := r.collect(func(d *repository.MovementDetail) bool { return d.ProductID == productID })
	if err != nil {
		return nil, err
	}
	return newestFirst(rows), nil
}

func (r *movementRepo) ListByExitSlip(_ context.Context, exitSlipID string) ([]*repository.MovementDetail, error) {
	rows, err := r.collect(func(d *repository.MovementDetail) bool { return d.ExitSlipID == exitSlipID })
	if err != nil {
		return nil, err
	}
	out := make([]*repository.MovementDetail, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.d)
	}
	return out, nil
}

func (r *movementRepo) Search(_ context.Context, c repository.MovementCriteria, limit, offset int) ([]*repository.MovementDetail, int, error) {
	rows, err := r.collect(func(d *repository.MovementDetail) bool {
		switch {
		case c.ProductID != "" && d.ProductID != c.ProductID,
			c.ProductReference != "" && d.ProductReference != c.ProductReference,
			c.Type != "" && d.Type != c.Type,
			c.LotNumber != "" && d.LotNumber != c.LotNumber,
			c.From != nil && d.Date.Before(*c.From),
			c.To != nil && !d.Date.Before(*c.To):
			return false
		}
		return true
	})
	if err != nil {
		return nil, 0, err
	}
	all := newestFirst(rows)
	return page(all, limit, offset), len(all), nil
}
