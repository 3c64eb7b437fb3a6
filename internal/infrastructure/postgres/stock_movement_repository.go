package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementDetailSelect = `
	SELECT m.id, m.product_id, m.batch_id, m.type, m.quantity, m.unit_price, m.movement_date,
	       m.purchase_order_id, m.exit_slip_id, m.document_reference, m.notes, m.created_by, m.created_at,
	       p.reference, p.name, b.lot_number
	FROM stock_movements m
	JOIN products p ON p.id = m.product_id
	JOIN batches b ON b.id = m.batch_id`

// StockMovementRepo libro de movimientos sobre PostgreSQL: solo INSERT, nunca UPDATE/DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega un asiento al libro.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, batch_id, type, quantity, unit_price, movement_date,
			purchase_order_id, exit_slip_id, document_reference, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.BatchID, m.Type, m.Quantity, m.UnitPrice, m.Date,
		nullable(m.PurchaseOrderID), nullable(m.ExitSlipID), m.DocumentReference, m.Notes, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return writeError("insert stock movement", err)
	}
	return nil
}

// ListByProduct movimientos del producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string) ([]*repository.MovementDetail, error) {
	return r.list(ctx, movementDetailSelect+` WHERE m.product_id = $1 ORDER BY m.movement_date DESC, m.seq DESC`, productID)
}

// ListByExitSlip asientos OUT de un bon en el orden en que se generaron.
func (r *StockMovementRepo) ListByExitSlip(ctx context.Context, exitSlipID string) ([]*repository.MovementDetail, error) {
	return r.list(ctx, movementDetailSelect+` WHERE m.exit_slip_id = $1 ORDER BY m.seq ASC`, exitSlipID)
}

// Search compila los criterios a un WHERE parametrizado; devuelve la página pedida y el total.
func (r *StockMovementRepo) Search(ctx context.Context, c repository.MovementCriteria, limit, offset int) ([]*repository.MovementDetail, int, error) {
	var (
		a     args
		conds []string
	)
	if c.ProductID != "" {
		conds = append(conds, "m.product_id = "+a.add(c.ProductID))
	}
	if c.ProductReference != "" {
		conds = append(conds, "p.reference = "+a.add(c.ProductReference))
	}
	if c.Type != "" {
		conds = append(conds, "m.type = "+a.add(c.Type))
	}
	if c.LotNumber != "" {
		conds = append(conds, "b.lot_number = "+a.add(c.LotNumber))
	}
	if c.From != nil {
		conds = append(conds, "m.movement_date >= "+a.add(*c.From))
	}
	if c.To != nil {
		conds = append(conds, "m.movement_date < "+a.add(*c.To))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM stock_movements m
		JOIN products p ON p.id = m.product_id
		JOIN batches b ON b.id = m.batch_id` + where
	if err := r.q.QueryRow(ctx, countQuery, a.values...).Scan(&total); err != nil {
		return nil, 0, readError("count movements", err)
	}

	query := movementDetailSelect + where +
		fmt.Sprintf(" ORDER BY m.movement_date DESC, m.seq DESC LIMIT %s OFFSET %s", a.add(limit), a.add(offset))
	list, err := r.list(ctx, query, a.values...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *StockMovementRepo) list(ctx context.Context, query string, args ...any) ([]*repository.MovementDetail, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, readError("list movements", err)
	}
	defer rows.Close()
	list := make([]*repository.MovementDetail, 0)
	for rows.Next() {
		d, err := scanMovementDetail(rows)
		if err != nil {
			return nil, readError("scan movement", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func scanMovementDetail(row pgx.Row) (*repository.MovementDetail, error) {
	var (
		d                 repository.MovementDetail
		orderID, exitSlip *string
	)
	err := row.Scan(
		&d.ID, &d.ProductID, &d.BatchID, &d.Type, &d.Quantity, &d.UnitPrice, &d.Date,
		&orderID, &exitSlip, &d.DocumentReference, &d.Notes, &d.CreatedBy, &d.CreatedAt,
		&d.ProductReference, &d.ProductName, &d.LotNumber,
	)
	if err != nil {
		return nil, err
	}
	d.PurchaseOrderID = deref(orderID)
	d.ExitSlipID = deref(exitSlip)
	return &d, nil
}
