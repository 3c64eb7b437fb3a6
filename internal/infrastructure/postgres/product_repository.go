package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, reference, name, description, unit_price, category, current_stock,
	reorder_threshold, unit_of_measure, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Reference, p.Name, p.Description, p.UnitPrice, p.Category, p.CurrentStock,
		p.ReorderThreshold, p.UnitOfMeasure, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return writeError("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate obtiene el producto y bloquea la fila hasta el fin de la tx (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

// GetByReference obtiene un producto por referencia.
func (r *ProductRepo) GetByReference(ctx context.Context, reference string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE reference = $1`, reference)
}

// ExistsByReference indica si otra fila (distinta de excludeID) usa la referencia.
func (r *ProductRepo) ExistsByReference(ctx context.Context, reference, excludeID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE reference = $1 AND ($2 = '' OR id::text <> $2))`,
		reference, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, readError("exists product reference", err)
	}
	return exists, nil
}

// Update actualiza los datos descriptivos; current_stock queda fuera a propósito.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET reference = $2, name = $3, description = $4, unit_price = $5, category = $6,
		    reorder_threshold = $7, unit_of_measure = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Reference, p.Name, p.Description, p.UnitPrice, p.Category,
		p.ReorderThreshold, p.UnitOfMeasure, p.UpdatedAt,
	)
	if err != nil {
		return writeError("update product", err)
	}
	return nil
}

// UpdateStock persiste current_stock (solo lo usan los motores de recepción y salida).
func (r *ProductRepo) UpdateStock(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx,
		`UPDATE products SET current_stock = $2, updated_at = $3 WHERE id = $1`,
		p.ID, p.CurrentStock, p.UpdatedAt,
	)
	if err != nil {
		return readError("update product stock", err)
	}
	return nil
}

// List lista productos por nombre con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY name, reference LIMIT $1 OFFSET $2`, limit, offset)
}

// Count total de productos.
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, readError("count products", err)
	}
	return n, nil
}

// ListAll todos los productos por nombre.
func (r *ProductRepo) ListAll(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY name, reference`)
}

// Search por referencia, nombre o categoría (sin distinguir mayúsculas).
func (r *ProductRepo) Search(ctx context.Context, keyword string) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE reference ILIKE $1 OR name ILIKE $1 OR category ILIKE $1
		ORDER BY name, reference`
	return r.list(ctx, query, likePattern(keyword))
}

// ListByCategory productos de una categoría.
func (r *ProductRepo) ListByCategory(ctx context.Context, category string) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE category = $1 ORDER BY name, reference`, category)
}

// ListBelowReorderThreshold productos en alerta (stock estrictamente menor al punto de pedido).
func (r *ProductRepo) ListBelowReorderThreshold(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE current_stock < reorder_threshold ORDER BY name, reference`)
}

// Delete elimina un producto. Si tiene lotes, líneas o movimientos devuelve ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return writeError("delete product", err)
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, readError("get product", err)
	}
	return p, nil
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, readError("list products", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, readError("scan product", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Reference, &p.Name, &p.Description, &p.UnitPrice, &p.Category, &p.CurrentStock,
		&p.ReorderThreshold, &p.UnitOfMeasure, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
