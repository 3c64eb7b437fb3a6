package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const orderColumns = `id, number, order_date, reception_date, supplier_id, status, total_amount, notes, created_at, updated_at`

// PurchaseOrderRepo órdenes de compra y sus líneas sobre PostgreSQL.
// Create/Update escriben varias tablas: usar dentro de TxRunner.Run.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create inserta cabecera y líneas.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Number, o.OrderDate, o.ReceptionDate, o.SupplierID, o.Status, o.TotalAmount, o.Notes, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return writeError("insert purchase order", err)
	}
	return r.insertLines(ctx, o)
}

// GetByID obtiene una orden con sus líneas.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`, id)
}

// GetForUpdate obtiene la orden bloqueando su fila (serializa validar/recibir/anular).
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

// ExistsByNumber indica si otra orden (distinta de excludeID) usa el número.
func (r *PurchaseOrderRepo) ExistsByNumber(ctx context.Context, number, excludeID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM purchase_orders WHERE number = $1 AND ($2 = '' OR id::text <> $2))`,
		number, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, readError("exists order number", err)
	}
	return exists, nil
}

// Update reescribe la cabecera y reemplaza todas las líneas.
func (r *PurchaseOrderRepo) Update(ctx context.Context, o *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET number = $2, order_date = $3, reception_date = $4, supplier_id = $5, status = $6,
		    total_amount = $7, notes = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Number, o.OrderDate, o.ReceptionDate, o.SupplierID, o.Status, o.TotalAmount, o.Notes, o.UpdatedAt,
	)
	if err != nil {
		return writeError("update purchase order", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_order_lines WHERE order_id = $1`, o.ID); err != nil {
		return readError("delete order lines", err)
	}
	return r.insertLines(ctx, o)
}

// UpdateStatus persiste estado, fecha de recepción y observaciones.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, o *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx,
		`UPDATE purchase_orders SET status = $2, reception_date = $3, notes = $4, updated_at = $5 WHERE id = $1`,
		o.ID, o.Status, o.ReceptionDate, o.Notes, o.UpdatedAt,
	)
	if err != nil {
		return readError("update purchase order status", err)
	}
	return nil
}

// Delete elimina la orden; las líneas caen por ON DELETE CASCADE.
func (r *PurchaseOrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id); err != nil {
		return writeError("delete purchase order", err)
	}
	return nil
}

// Search filtra por proveedor, estado y rango de fechas; orden por fecha descendente.
func (r *PurchaseOrderRepo) Search(ctx context.Context, f repository.OrderFilter) ([]*entity.PurchaseOrder, error) {
	var (
		a     args
		conds []string
	)
	if f.SupplierID != "" {
		conds = append(conds, "supplier_id = "+a.add(f.SupplierID))
	}
	if f.Status != "" {
		conds = append(conds, "status = "+a.add(f.Status))
	}
	if f.From != nil {
		conds = append(conds, "order_date >= "+a.add(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "order_date <= "+a.add(*f.To))
	}
	query := `SELECT ` + orderColumns + ` FROM purchase_orders`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY order_date DESC, created_at DESC"

	rows, err := r.q.Query(ctx, query, a.values...)
	if err != nil {
		return nil, readError("search purchase orders", err)
	}
	orders := make([]*entity.PurchaseOrder, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, readError("scan purchase order", err)
		}
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Las líneas se cargan después de cerrar rows: una tx no admite dos consultas abiertas.
	for _, o := range orders {
		if err := r.loadLines(ctx, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *PurchaseOrderRepo) getOne(ctx context.Context, query, id string) (*entity.PurchaseOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, readError("get purchase order", err)
	}
	if err := r.loadLines(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PurchaseOrderRepo) insertLines(ctx context.Context, o *entity.PurchaseOrder) error {
	for i, l := range o.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_lines (id, order_id, product_id, position, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, o.ID, l.ProductID, i+1, l.Quantity, l.UnitPrice, l.Subtotal,
		)
		if err != nil {
			return writeError("insert order line", err)
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) loadLines(ctx context.Context, o *entity.PurchaseOrder) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, subtotal
		FROM purchase_order_lines WHERE order_id = $1 ORDER BY position`, o.ID)
	if err != nil {
		return readError("list order lines", err)
	}
	defer rows.Close()
	o.Lines = make([]entity.OrderLine, 0)
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return readError("scan order line", err)
		}
		o.Lines = append(o.Lines, l)
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	err := row.Scan(
		&o.ID, &o.Number, &o.OrderDate, &o.ReceptionDate, &o.SupplierID, &o.Status,
		&o.TotalAmount, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
