package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
)

var _ repository.ExitSlipRepository = (*ExitSlipRepo)(nil)

const exitSlipColumns = `id, number, exit_date, workshop, reason, status, notes, validated_at, created_at, updated_at`

// ExitSlipRepo bons de salida y sus líneas sobre PostgreSQL.
type ExitSlipRepo struct {
	q Querier
}

// NewExitSlipRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExitSlipRepository(q Querier) *ExitSlipRepo {
	return &ExitSlipRepo{q: q}
}

// Create inserta cabecera y líneas.
func (r *ExitSlipRepo) Create(ctx context.Context, s *entity.ExitSlip) error {
	query := `
		INSERT INTO exit_slips (` + exitSlipColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Number, s.ExitDate, s.Workshop, s.Reason, s.Status, s.Notes, s.ValidatedAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return writeError("insert exit slip", err)
	}
	return r.insertLines(ctx, s)
}

// GetByID obtiene un bon con sus líneas.
func (r *ExitSlipRepo) GetByID(ctx context.Context, id string) (*entity.ExitSlip, error) {
	return r.getOne(ctx, `SELECT `+exitSlipColumns+` FROM exit_slips WHERE id = $1`, id)
}

// GetForUpdate obtiene el bon bloqueando su fila: dos validaciones concurrentes se serializan.
func (r *ExitSlipRepo) GetForUpdate(ctx context.Context, id string) (*entity.ExitSlip, error) {
	return r.getOne(ctx, `SELECT `+exitSlipColumns+` FROM exit_slips WHERE id = $1 FOR UPDATE`, id)
}

// ExistsByNumber indica si otro bon (distinto de excludeID) usa el número.
func (r *ExitSlipRepo) ExistsByNumber(ctx context.Context, number, excludeID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM exit_slips WHERE number = $1 AND ($2 = '' OR id::text <> $2))`,
		number, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, readError("exists exit slip number", err)
	}
	return exists, nil
}

// Update reescribe la cabecera y reemplaza las líneas.
func (r *ExitSlipRepo) Update(ctx context.Context, s *entity.ExitSlip) error {
	query := `
		UPDATE exit_slips
		SET number = $2, exit_date = $3, workshop = $4, reason = $5, status = $6, notes = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, s.ID, s.Number, s.ExitDate, s.Workshop, s.Reason, s.Status, s.Notes, s.UpdatedAt)
	if err != nil {
		return writeError("update exit slip", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM exit_slip_lines WHERE exit_slip_id = $1`, s.ID); err != nil {
		return readError("delete exit slip lines", err)
	}
	return r.insertLines(ctx, s)
}

// UpdateStatus persiste estado y fecha de validación.
func (r *ExitSlipRepo) UpdateStatus(ctx context.Context, s *entity.ExitSlip) error {
	_, err := r.q.Exec(ctx,
		`UPDATE exit_slips SET status = $2, validated_at = $3, updated_at = $4 WHERE id = $1`,
		s.ID, s.Status, s.ValidatedAt, s.UpdatedAt,
	)
	if err != nil {
		return readError("update exit slip status", err)
	}
	return nil
}

// List bons por fecha de salida descendente; workshop vacío lista todos.
func (r *ExitSlipRepo) List(ctx context.Context, workshop string) ([]*entity.ExitSlip, error) {
	query := `SELECT ` + exitSlipColumns + ` FROM exit_slips
		WHERE ($1 = '' OR workshop = $1)
		ORDER BY exit_date DESC, created_at DESC`
	rows, err := r.q.Query(ctx, query, workshop)
	if err != nil {
		return nil, readError("list exit slips", err)
	}
	slips := make([]*entity.ExitSlip, 0)
	for rows.Next() {
		s, err := scanExitSlip(rows)
		if err != nil {
			rows.Close()
			return nil, readError("scan exit slip", err)
		}
		slips = append(slips, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range slips {
		if err := r.loadLines(ctx, s); err != nil {
			return nil, err
		}
	}
	return slips, nil
}

func (r *ExitSlipRepo) getOne(ctx context.Context, query, id string) (*entity.ExitSlip, error) {
	s, err := scanExitSlip(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, readError("get exit slip", err)
	}
	if err := r.loadLines(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *ExitSlipRepo) insertLines(ctx context.Context, s *entity.ExitSlip) error {
	for i, l := range s.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO exit_slip_lines (id, exit_slip_id, product_id, position, requested_quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			l.ID, s.ID, l.ProductID, i+1, l.RequestedQuantity,
		)
		if err != nil {
			return writeError("insert exit slip line", err)
		}
	}
	return nil
}

func (r *ExitSlipRepo) loadLines(ctx context.Context, s *entity.ExitSlip) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, exit_slip_id, product_id, requested_quantity
		FROM exit_slip_lines WHERE exit_slip_id = $1 ORDER BY position`, s.ID)
	if err != nil {
		return readError("list exit slip lines", err)
	}
	defer rows.Close()
	s.Lines = make([]entity.ExitSlipLine, 0)
	for rows.Next() {
		var l entity.ExitSlipLine
		if err := rows.Scan(&l.ID, &l.ExitSlipID, &l.ProductID, &l.RequestedQuantity); err != nil {
			return readError("scan exit slip line", err)
		}
		s.Lines = append(s.Lines, l)
	}
	return rows.Err()
}

func scanExitSlip(row pgx.Row) (*entity.ExitSlip, error) {
	var s entity.ExitSlip
	err := row.Scan(
		&s.ID, &s.Number, &s.ExitDate, &s.Workshop, &s.Reason, &s.Status, &s.Notes,
		&s.ValidatedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
