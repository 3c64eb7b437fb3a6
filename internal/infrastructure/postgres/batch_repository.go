package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, lot_number, product_id, purchase_order_id, entry_date, initial_quantity,
	remaining_quantity, unit_cost, created_at`

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un lote nuevo; seq lo asigna la BD y fija el orden de inserción.
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	query := `
		INSERT INTO batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.LotNumber, b.ProductID, nullable(b.PurchaseOrderID), b.EntryDate,
		b.InitialQuantity, b.RemainingQuantity, b.UnitCost, b.CreatedAt,
	)
	if err != nil {
		return writeError("insert batch", err)
	}
	return nil
}

// GetByID obtiene un lote.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, readError("get batch", err)
	}
	return b, nil
}

// UpdateRemaining persiste el saldo; el CHECK de la tabla impide salir de [0, initial].
func (r *BatchRepo) UpdateRemaining(ctx context.Context, b *entity.Batch) error {
	tag, err := r.q.Exec(ctx, `UPDATE batches SET remaining_quantity = $2 WHERE id = $1`, b.ID, b.RemainingQuantity)
	if err != nil {
		return readError("update batch remaining", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update batch remaining: lote %s no existe", b.ID)
	}
	return nil
}

// ExistsByLotNumber indica si el número de lote ya está tomado.
func (r *BatchRepo) ExistsByLotNumber(ctx context.Context, lotNumber string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM batches WHERE lot_number = $1)`, lotNumber).Scan(&exists); err != nil {
		return false, readError("exists lot number", err)
	}
	return exists, nil
}

// ListAvailableFIFO lotes con saldo del producto: fecha de entrada ascendente y seq como desempate.
func (r *BatchRepo) ListAvailableFIFO(ctx context.Context, productID string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + ` FROM batches
		WHERE product_id = $1 AND remaining_quantity > 0
		ORDER BY entry_date ASC, seq ASC`
	return r.list(ctx, query, productID)
}

// ListAvailable todos los lotes con saldo.
func (r *BatchRepo) ListAvailable(ctx context.Context) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + ` FROM batches
		WHERE remaining_quantity > 0
		ORDER BY product_id, entry_date ASC, seq ASC`
	return r.list(ctx, query)
}

// ListByProduct historial de lotes del producto (incluye agotados).
func (r *BatchRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Batch, error) {
	return r.list(ctx, `SELECT `+batchColumns+` FROM batches WHERE product_id = $1 ORDER BY entry_date ASC, seq ASC`, productID)
}

// ListByPurchaseOrder lotes creados por la recepción de una orden.
func (r *BatchRepo) ListByPurchaseOrder(ctx context.Context, orderID string) ([]*entity.Batch, error) {
	return r.list(ctx, `SELECT `+batchColumns+` FROM batches WHERE purchase_order_id = $1 ORDER BY seq ASC`, orderID)
}

func (r *BatchRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Batch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, readError("list batches", err)
	}
	defer rows.Close()
	list := make([]*entity.Batch, 0)
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, readError("scan batch", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var (
		b       entity.Batch
		orderID *string
	)
	err := row.Scan(
		&b.ID, &b.LotNumber, &b.ProductID, &orderID, &b.EntryDate, &b.InitialQuantity,
		&b.RemainingQuantity, &b.UnitCost, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.PurchaseOrderID = deref(orderID)
	return &b, nil
}
