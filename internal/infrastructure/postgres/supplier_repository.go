package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

const supplierColumns = `id, company_name, address, city, contact_person, email, phone, ice, created_at, updated_at`

// SupplierRepo implementación del puerto SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (` + supplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyName, s.Address, s.City, s.ContactPerson, s.Email, s.Phone, s.ICE, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return writeError("insert supplier", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	return r.getOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
}

// GetByEmail obtiene un proveedor por email.
func (r *SupplierRepo) GetByEmail(ctx context.Context, email string) (*entity.Supplier, error) {
	return r.getOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE email = $1`, email)
}

// GetByICE obtiene un proveedor por ICE.
func (r *SupplierRepo) GetByICE(ctx context.Context, ice string) (*entity.Supplier, error) {
	return r.getOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE ice = $1`, ice)
}

// ExistsByEmail indica si otro proveedor usa el email.
func (r *SupplierRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

// ExistsByICE indica si otro proveedor usa el ICE.
func (r *SupplierRepo) ExistsByICE(ctx context.Context, ice, excludeID string) (bool, error) {
	return r.exists(ctx, "ice", ice, excludeID)
}

// Update actualiza los datos del proveedor.
func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	query := `
		UPDATE suppliers
		SET company_name = $2, address = $3, city = $4, contact_person = $5, email = $6, phone = $7, ice = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyName, s.Address, s.City, s.ContactPerson, s.Email, s.Phone, s.ICE, s.UpdatedAt,
	)
	if err != nil {
		return writeError("update supplier", err)
	}
	return nil
}

// Delete elimina el proveedor; falla con ErrConflict si tiene órdenes.
func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id); err != nil {
		return writeError("delete supplier", err)
	}
	return nil
}

// Search por palabra clave, ciudad o razón social, ordenado por razón social.
func (r *SupplierRepo) Search(ctx context.Context, f repository.SupplierFilter) ([]*entity.Supplier, error) {
	var (
		a     args
		conds []string
	)
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		p := a.add(likePattern(kw))
		conds = append(conds, fmt.Sprintf("(company_name ILIKE %[1]s OR city ILIKE %[1]s OR email ILIKE %[1]s OR ice ILIKE %[1]s)", p))
	}
	if f.City != "" {
		conds = append(conds, "city ILIKE "+a.add(f.City))
	}
	if f.CompanyName != "" {
		conds = append(conds, "company_name ILIKE "+a.add(likePattern(f.CompanyName)))
	}
	query := `SELECT ` + supplierColumns + ` FROM suppliers`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY company_name"

	rows, err := r.q.Query(ctx, query, a.values...)
	if err != nil {
		return nil, readError("search suppliers", err)
	}
	defer rows.Close()
	list := make([]*entity.Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, readError("scan supplier", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SupplierRepo) exists(ctx context.Context, column, value, excludeID string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM suppliers WHERE %s = $1 AND ($2 = '' OR id::text <> $2))`, column)
	if err := r.q.QueryRow(ctx, query, value, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists supplier %s: %w", column, err)
	}
	return exists, nil
}

func (r *SupplierRepo) getOne(ctx context.Context, query, arg string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, readError("get supplier", err)
	}
	return s, nil
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(
		&s.ID, &s.CompanyName, &s.Address, &s.City, &s.ContactPerson, &s.Email, &s.Phone, &s.ICE,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
