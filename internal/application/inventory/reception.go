package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-stock-api/internal/application/ports"
	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/inventory"
	"github.com/jhoicas/gestion-stock-api/pkg/logger"
)

// ReceptionResult lotes y asientos IN creados, uno por línea de la orden y en el mismo orden.
type ReceptionResult struct {
	Batches   []*entity.Batch
	Movements []*entity.StockMovement
}

// ReceptionEngine convierte la recepción de una orden VALIDATED en lotes nuevos.
// Como WithdrawalEngine, trabaja dentro de la tx del llamador.
type ReceptionEngine struct {
	metrics ports.InventoryMetrics
	log     *logger.Logger
	now     func() time.Time
}

// NewReceptionEngine construye el motor.
func NewReceptionEngine(metrics ports.InventoryMetrics, log *logger.Logger) *ReceptionEngine {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReceptionEngine{metrics: metrics, log: log, now: time.Now}
}

// Receive marca la orden RECEIVED y por cada línea crea un lote, un asiento IN y suma el stock.
// Todos los productos se verifican y bloquean antes de crear el primer lote; la orden se persiste al final.
func (e *ReceptionEngine) Receive(
	ctx context.Context,
	repos ports.Repositories,
	order *entity.PurchaseOrder,
	receptionDate time.Time,
	notes, userID string,
) (*ReceptionResult, error) {
	if !order.CanBeReceived() {
		e.metrics.Rejected("order_not_receivable")
		return nil, domain.InvalidState("la orden "+order.Number, order.Status, "recibir")
	}
	if len(order.Lines) == 0 {
		return nil, domain.Invalid("la orden %s no tiene líneas", order.Number)
	}

	ids := make([]string, 0, len(order.Lines))
	for _, l := range order.Lines {
		ids = append(ids, l.ProductID)
	}
	products, err := LockProducts(ctx, repos.Products, ids)
	if err != nil {
		return nil, err
	}

	now := e.now()
	if err := order.MarkReceived(receptionDate, notes, now); err != nil {
		return nil, err
	}

	res := &ReceptionResult{
		Batches:   make([]*entity.Batch, 0, len(order.Lines)),
		Movements: make([]*entity.StockMovement, 0, len(order.Lines)),
	}
	for i, line := range order.Lines {
		product := products[line.ProductID]

		prefix := inventory.LotPrefix(receptionDate, product.Reference, order.Number)
		lot, err := inventory.NextLotNumber(ctx, repos.Batches.ExistsByLotNumber, prefix, i+1)
		if err != nil {
			return nil, err
		}
		batch, err := entity.NewBatch(uuid.New().String(), lot, product.ID, order.ID, receptionDate, line.Quantity, line.UnitPrice)
		if err != nil {
			return nil, err
		}
		batch.CreatedAt = now
		if err := repos.Batches.Create(ctx, batch); err != nil {
			return nil, fmt.Errorf("crear lote %s: %w", lot, err)
		}

		mov := &entity.StockMovement{
			ID:                uuid.New().String(),
			ProductID:         product.ID,
			BatchID:           batch.ID,
			Type:              entity.MovementTypeIn,
			Quantity:          line.Quantity,
			UnitPrice:         line.UnitPrice,
			Date:              now,
			PurchaseOrderID:   order.ID,
			DocumentReference: order.Number,
			Notes:             "Recepción de la orden " + order.Number,
			CreatedBy:         userID,
			CreatedAt:         now,
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return nil, fmt.Errorf("registrar movimiento IN: %w", err)
		}

		if err := product.IncrementStock(line.Quantity); err != nil {
			return nil, err
		}
		product.UpdatedAt = now
		if err := repos.Products.UpdateStock(ctx, product); err != nil {
			return nil, fmt.Errorf("actualizar stock de %s: %w", product.Reference, err)
		}

		e.metrics.MovementRecorded(entity.MovementTypeIn, line.Quantity)
		e.log.Debug().Str("lot", lot).Str("product_id", product.ID).Int("quantity", line.Quantity).Msg("lote creado")
		res.Batches = append(res.Batches, batch)
		res.Movements = append(res.Movements, mov)
	}

	if err := repos.Orders.UpdateStatus(ctx, order); err != nil {
		return nil, fmt.Errorf("actualizar orden %s: %w", order.Number, err)
	}
	return res, nil
}
