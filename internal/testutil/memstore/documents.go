package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

type orderRepo struct{ v view }

func (r *orderRepo) Create(_ context.Context, o *entity.PurchaseOrder) error {
	return r.v.write("orders.create", func(st *state) error {
		if _, ok := st.suppliers[o.SupplierID]; !ok {
			return fmt.Errorf("%w: purchase_orders_supplier_id_fkey", domain.ErrConflict)
		}
		for _, x := range st.orders {
			if x.Number == o.Number {
				return fmt.Errorf("%w: purchase_orders_number_key", domain.ErrDuplicate)
			}
		}
		if err := checkProducts(st, orderProducts(o)); err != nil {
			return err
		}
		st.orders[o.ID] = copyOrder(o)
		return nil
	})
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.v.read(func(st *state) error {
		if o, ok := st.orders[id]; ok {
			out = copyOrder(o)
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) ExistsByNumber(_ context.Context, number, excludeID string) (bool, error) {
	found := false
	err := r.v.read(func(st *state) error {
		for _, o := range st.orders {
			if o.Number == number && o.ID != excludeID {
				found = true
			}
		}
		return nil
	})
	return found, err
}

func (r *orderRepo) Update(_ context.Context, o *entity.PurchaseOrder) error {
	return r.v.write("orders.update", func(st *state) error {
		if _, ok := st.orders[o.ID]; !ok {
			return nil
		}
		for _, x := range st.orders {
			if x.ID != o.ID && x.Number == o.Number {
				return fmt.Errorf("%w: purchase_orders_number_key", domain.ErrDuplicate)
			}
		}
		if _, ok := st.suppliers[o.SupplierID]; !ok {
			return fmt.Errorf("%w: purchase_orders_supplier_id_fkey", domain.ErrConflict)
		}
		if err := checkProducts(st, orderProducts(o)); err != nil {
			return err
		}
		st.orders[o.ID] = copyOrder(o)
		return nil
	})
}

func (r *orderRepo) UpdateStatus(_ context.Context, o *entity.PurchaseOrder) error {
	return r.v.write("orders.update_status", func(st *state) error {
		cur, ok := st.orders[o.ID]
		if !ok {
			return fmt.Errorf("update purchase order status: orden %s no existe", o.ID)
		}
		cur.Status = o.Status
		cur.ReceptionDate = o.ReceptionDate
		cur.Notes = o.Notes
		cur.UpdatedAt = o.UpdatedAt
		return nil
	})
}

func (r *orderRepo) Delete(_ context.Context, id string) error {
	return r.v.write("orders.delete", func(st *state) error {
		for _, b := range st.batches {
			if b.PurchaseOrderID == id {
				return fmt.Errorf("%w: batches_purchase_order_id_fkey", domain.ErrConflict)
			}
		}
		delete(st.orders, id)
		return nil
	})
}

func (r *orderRepo) Search(_ context.Context, f repository.OrderFilter) ([]*entity.PurchaseOrder, error) {
	out := make([]*entity.PurchaseOrder, 0)
	err := r.v.read(func(st *state) error {
		for _, o := range st.orders {
			switch {
			case f.SupplierID != "" && o.SupplierID != f.SupplierID,
				f.Status != "" && o.Status != f.Status,
				f.From != nil && o.OrderDate.Before(*f.From),
				f.To != nil && o.OrderDate.After(*f.To):
				continue
			}
			out = append(out, copyOrder(o))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.After(out[j].OrderDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, err
}

type exitSlipRepo struct{ v view }

func (r *exitSlipRepo) Create(_ context.Context, s *entity.ExitSlip) error {
	return r.v.write("exit_slips.create", func(st *state) error {
		for _, x := range st.slips {
			if x.Number == s.Number {
				return fmt.Errorf("%w: exit_slips_number_key", domain.ErrDuplicate)
			}
		}
		if err := checkProducts(st, slipProducts(s)); err != nil {
			return err
		}
		st.slips[s.ID] = copySlip(s)
		return nil
	})
}

func (r *exitSlipRepo) GetByID(_ context.Context, id string) (*entity.ExitSlip, error) {
	var out *entity.ExitSlip
	err := r.v.read(func(st *state) error {
		if s, ok := st.slips[id]; ok {
			out = copySlip(s)
		}
		return nil
	})
	return out, err
}

func (r *exitSlipRepo) GetForUpdate(ctx context.Context, id string) (*entity.ExitSlip, error) {
	return r.GetByID(ctx, id)
}

func (r *exitSlipRepo) ExistsByNumber(_ context.Context, number, excludeID string) (bool, error) {
	found := false
	err := r.v.read(func(st *state) error {
		for _, s := range st.slips {
			if s.Number == number && s.ID != excludeID {
				found = true
			}
		}
		return nil
	})
	return found, err
}

func (r *exitSlipRepo) Update(_ context.Context, s *entity.ExitSlip) error {
	return r.v.write("exit_slips.update", func(st *state) error {
		if _, ok := st.slips[s.ID]; !ok {
			return nil
		}
		for _, x := range st.slips {
			if x.ID != s.ID && x.Number == s.Number {
				return fmt.Errorf("%w: exit_slips_number_key", domain.ErrDuplicate)
			}
		}
		if err := checkProducts(st, slipProducts(s)); err != nil {
			return err
		}
		cur := st.slips[s.ID]
		c := copySlip(s)
		c.ValidatedAt = cur.ValidatedAt
		st.slips[s.ID] = c
		return nil
	})
}

func (r *exitSlipRepo) UpdateStatus(_ context.Context, s *entity.ExitSlip) error {
	return r.v.write("exit_slips.update_status", func(st *state) error {
		cur, ok := st.slips[s.ID]
		if !ok {
			return fmt.Errorf("update exit slip status: bon %s no existe", s.ID)
		}
		cur.Status = s.Status
		cur.ValidatedAt = s.ValidatedAt
		cur.UpdatedAt = s.UpdatedAt
		return nil
	})
}

func (r *exitSlipRepo) List(_ context.Context, workshop string) ([]*entity.ExitSlip, error) {
	out := make([]*entity.ExitSlip, 0)
	err := r.v.read(func(st *state) error {
		for _, s := range st.slips {
			if workshop == "" || s.Workshop == workshop {
				out = append(out, copySlip(s))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExitDate.Equal(out[j].ExitDate) {
			return out[i].ExitDate.After(out[j].ExitDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, err
}

func orderProducts(o *entity.PurchaseOrder) []string {
	ids := make([]string, 0, len(o.Lines))
	for _, l := range o.Lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

func slipProducts(s *entity.ExitSlip) []string {
	ids := make([]string, 0, len(s.Lines))
	for _, l := range s.Lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

func checkProducts(st *state, ids []string) error {
	for _, id := range ids {
		if _, ok := st.products[id]; !ok {
			return fmt.Errorf("%w: product_id_fkey (%s)", domain.ErrConflict, id)
		}
	}
	return nil
}
