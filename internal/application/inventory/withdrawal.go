package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-stock-api/internal/application/ports"
	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/inventory"
	"github.com/jhoicas/gestion-stock-api/pkg/logger"
)

// WithdrawalContext documento que origina la salida; se usa para anotar los movimientos.
type WithdrawalContext struct {
	ExitSlipID     string
	ExitSlipNumber string
	Workshop       string
	UserID         string
}

// Consumption lote tocado por una línea de salida y el asiento OUT que lo registra.
type Consumption struct {
	Batch    *entity.Batch
	Quantity int
	Movement *entity.StockMovement
}

// WithdrawalEngine motor de salidas FIFO. No abre transacciones: trabaja con los
// repositorios de la tx del llamador para que lote, producto y libro se confirmen juntos.
type WithdrawalEngine struct {
	metrics ports.InventoryMetrics
	log     *logger.Logger
	now     func() time.Time
}

// NewWithdrawalEngine construye el motor.
func NewWithdrawalEngine(metrics ports.InventoryMetrics, log *logger.Logger) *WithdrawalEngine {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &WithdrawalEngine{metrics: metrics, log: log, now: time.Now}
}

// ProcessLine retira requested unidades de product consumiendo sus lotes en orden FIFO.
// product debe venir bloqueado (GetForUpdate) en la misma tx que repos.
//
// Se comprueba el stock del producto antes de leer lotes y el plan FIFO se calcula
// completo antes de la primera escritura, así que un rechazo no deja cambios parciales.
func (e *WithdrawalEngine) ProcessLine(
	ctx context.Context,
	repos ports.Repositories,
	product *entity.Product,
	requested int,
	wc WithdrawalContext,
) ([]Consumption, error) {
	if requested <= 0 {
		return nil, domain.Invalid("la cantidad solicitada debe ser positiva, recibido %d", requested)
	}
	if requested > product.CurrentStock {
		e.metrics.Rejected("insufficient_stock")
		return nil, domain.InsufficientStock(product.Name, product.CurrentStock, requested)
	}

	batches, err := repos.Batches.ListAvailableFIFO(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("listar lotes disponibles: %w", err)
	}
	plan, err := inventory.PlanFIFO(product.Name, batches, requested)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoBatchAvailable):
			e.metrics.Rejected("no_batch_available")
			e.log.Error().Str("product_id", product.ID).Int("current_stock", product.CurrentStock).
				Msg("stock registrado sin lotes que lo respalden")
		case errors.Is(err, domain.ErrInsufficientStock):
			e.metrics.Rejected("insufficient_stock")
			e.log.Error().Str("product_id", product.ID).Int("current_stock", product.CurrentStock).
				Int("requested", requested).Msg("los lotes no cubren el stock registrado")
		}
		return nil, err
	}

	now := e.now()
	out := make([]Consumption, 0, len(plan))
	for _, a := range plan {
		if _, err := a.Batch.Consume(a.Quantity); err != nil {
			return nil, err
		}
		if err := repos.Batches.UpdateRemaining(ctx, a.Batch); err != nil {
			return nil, fmt.Errorf("actualizar lote %s: %w", a.Batch.LotNumber, err)
		}
		mov := &entity.StockMovement{
			ID:                uuid.New().String(),
			ProductID:         product.ID,
			BatchID:           a.Batch.ID,
			Type:              entity.MovementTypeOut,
			Quantity:          a.Quantity,
			UnitPrice:         a.Batch.UnitCost,
			Date:              now,
			ExitSlipID:        wc.ExitSlipID,
			DocumentReference: wc.ExitSlipNumber,
			Notes:             fmt.Sprintf("Salida al taller %s - lote %s", wc.Workshop, a.Batch.LotNumber),
			CreatedBy:         wc.UserID,
			CreatedAt:         now,
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return nil, fmt.Errorf("registrar movimiento OUT: %w", err)
		}
		e.metrics.MovementRecorded(entity.MovementTypeOut, a.Quantity)
		e.log.Debug().Str("lot", a.Batch.LotNumber).Int("quantity", a.Quantity).
			Int("remaining", a.Batch.RemainingQuantity).Msg("lote consumido")
		out = append(out, Consumption{Batch: a.Batch, Quantity: a.Quantity, Movement: mov})
	}

	// Una sola vez por línea, no por lote.
	if err := product.DecrementStock(requested); err != nil {
		return nil, err
	}
	product.UpdatedAt = now
	if err := repos.Products.UpdateStock(ctx, product); err != nil {
		return nil, fmt.Errorf("actualizar stock de %s: %w", product.Reference, err)
	}
	e.metrics.WithdrawalPlanned(len(out))
	return out, nil
}
