package repository

import (
	"context"

	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
)

// ExitSlipRepository define el puerto de persistencia para bons de salida (con líneas).
type ExitSlipRepository interface {
	Create(ctx context.Context, slip *entity.ExitSlip) error
	GetByID(ctx context.Context, id string) (*entity.ExitSlip, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ExitSlip, error)
	ExistsByNumber(ctx context.Context, number, excludeID string) (bool, error)
	// Update reescribe cabecera y reemplaza las líneas.
	Update(ctx context.Context, slip *entity.ExitSlip) error
	UpdateStatus(ctx context.Context, slip *entity.ExitSlip) error
	// List por fecha de salida descendente; workshop vacío = todos.
	List(ctx context.Context, workshop string) ([]*entity.ExitSlip, error)
}
