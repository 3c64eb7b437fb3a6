package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
)

type batchRepo struct{ v view }

func (r *batchRepo) Create(_ context.Context, b *entity.Batch) error {
	return r.v.write("batches.create", func(st *state) error {
		if _, ok := st.products[b.ProductID]; !ok {
			return fmt.Errorf("%w: batches_product_id_fkey", domain.ErrConflict)
		}
		for _, o := range st.batches {
			if o.LotNumber == b.LotNumber {
				return fmt.Errorf("%w: batches_lot_number_key", domain.ErrDuplicate)
			}
		}
		if b.RemainingQuantity < 0 || b.RemainingQuantity > b.InitialQuantity {
			return fmt.Errorf("batches_remaining_range")
		}
		st.batches[b.ID] = copyBatch(b)
		st.batchSeq[b.ID] = st.nextSeq()
		return nil
	})
}

func (r *batchRepo) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	var out *entity.Batch
	err := r.v.read(func(st *state) error {
		if b, ok := st.batches[id]; ok {
			out = copyBatch(b)
		}
		return nil
	})
	return out, err
}

func (r *batchRepo) UpdateRemaining(_ context.Context, b *entity.Batch) error {
	return r.v.write("batches.update_remaining", func(st *state) error {
		cur, ok := st.batches[b.ID]
		if !ok {
			return fmt.Errorf("update batch remaining: lote %s no existe", b.ID)
		}
		if b.RemainingQuantity < 0 || b.RemainingQuantity > cur.InitialQuantity {
			return fmt.Errorf("update batch remaining: batches_remaining_range")
		}
		cur.RemainingQuantity = b.RemainingQuantity
		return nil
	})
}

func (r *batchRepo) ExistsByLotNumber(_ context.Context, lotNumber string) (bool, error) {
	found := false
	err := r.v.read(func(st *state) error {
		for _, b := range st.batches {
			if b.LotNumber == lotNumber {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

// filter devuelve copias en orden FIFO (fecha de entrada y luego orden de inserción).
func (r *batchRepo) filter(match func(b *entity.Batch) bool, byProduct bool) ([]*entity.Batch, error) {
	out := make([]*entity.Batch, 0)
	var seq map[string]int64
	err := r.v.read(func(st *state) error {
		seq = st.batchSeq
		for _, b := range st.batches {
			if match(b) {
				out = append(out, copyBatch(b))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if byProduct && out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		if !out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryDate.Before(out[j].EntryDate)
		}
		return seq[out[i].ID] < seq[out[j].ID]
	})
	return out, err
}

func (r *batchRepo) ListAvailableFIFO(_ context.Context, productID string) ([]*entity.Batch, error) {
	return r.filter(func(b *entity.Batch) bool { return b.ProductID == productID && b.RemainingQuantity > 0 }, false)
}

func (r *batchRepo) ListAvailable(_ context.Context) ([]*entity.Batch, error) {
	return r.filter(func(b *entity.Batch) bool { return b.RemainingQuantity > 0 }, true)
}

func (r *batchRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Batch, error) {
	return r.filter(func(b *entity.Batch) bool { return b.ProductID == productID }, false)
}

func (r *batchRepo) ListByPurchaseOrder(_ context.Context, orderID string) ([]*entity.Batch, error) {
	return r.filter(func(b *entity.Batch) bool { return b.PurchaseOrderID == orderID }, false)
}
