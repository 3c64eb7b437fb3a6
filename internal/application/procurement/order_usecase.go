package procurement

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-stock-api/internal/application/dto"
	"github.com/jhoicas/gestion-stock-api/internal/application/inventory"
	"github.com/jhoicas/gestion-stock-api/internal/application/ports"
	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/domain/entity"
	"github.com/jhoicas/gestion-stock-api/internal/domain/repository"
	"github.com/jhoicas/gestion-stock-api/pkg/logger"
)

// OrderXMLExporter puerto de salida para exportar una orden como documento XML.
type OrderXMLExporter interface {
	ExportOrder(order *entity.PurchaseOrder, supplier *entity.Supplier, products map[string]*entity.Product) ([]byte, error)
}

// OrderUseCase ciclo de vida de las órdenes de compra: alta, edición, validación,
// recepción (delegada en ReceptionEngine) y anulación.
type OrderUseCase struct {
	tx        ports.TxRunner
	reception *inventory.ReceptionEngine
	exporter  OrderXMLExporter
	log       *logger.Logger
	now       func() time.Time
}

// NewOrderUseCase construye el caso de uso. exporter puede ser nil (ExportXML devolverá error).
func NewOrderUseCase(tx ports.TxRunner, reception *inventory.ReceptionEngine, exporter OrderXMLExporter, log *logger.Logger) *OrderUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderUseCase{tx: tx, reception: reception, exporter: exporter, log: log, now: time.Now}
}

// Create registra una orden PENDING con su total calculado.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.PurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	orderDate, err := parseRequiredDate("order_date", in.OrderDate)
	if err != nil {
		return nil, err
	}
	var out *dto.PurchaseOrderResponse
	err = uc.tx.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		number := strings.TrimSpace(in.Number)
		exists, err := repos.Orders.ExistsByNumber(ctx, number, "")
		if err != nil {
			return err
		}
		if exists {
			return domain.Duplicate("número de orden", number)
		}
		supplier, err := repos.Suppliers.GetByID(ctx, in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.NotFound("proveedor", "id", in.SupplierID)
		}
		lines, err := buildLines(ctx, repos.Products, in.Lines)
		if err != nil {
			return err
		}

		now := uc.now()
		order := &entity.PurchaseOrder{
			ID:         uuid.New().String(),
			Number:     number,
			OrderDate:  orderDate,
			SupplierID: supplier.ID,
			Status:     entity.OrderStatusPending,
			Notes:      in.Notes,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		order.ReplaceLines(lines)
		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}
		out, err = newEnricher(repos).response(ctx, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get devuelve una orden con sus líneas.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	var out *dto.PurchaseOrderResponse
	err := uc.tx.RunReadOnly(ctx, func(ctx context.Context, repos ports.Repositories) error {
		order, err := getOrder(ctx, repos.Orders.GetByID, id)
		if err != nil {
			return err
		}
		out, err = newEnricher(repos).response(ctx, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List todas las órdenes, más recientes primero.
func (uc *OrderUseCase) List(ctx context.Context) ([]dto.PurchaseOrderResponse, error) {
	return uc.search(ctx, repository.OrderFilter{}, "")
}

// ListBySupplier órdenes de un proveedor existente.
func (uc *OrderUseCase) ListBySupplier(ctx context.Context, supplierID string) ([]dto.PurchaseOrderResponse, error) {
	return uc.search(ctx, repository.OrderFilter{SupplierID: supplierID}, supplierID)
}

// ListByStatus órdenes en un estado.
func (uc *OrderUseCase) ListByStatus(ctx context.Context, status string) ([]dto.PurchaseOrderResponse, error) {
	status = strings.ToUpper(status)
	if !entity.IsValidOrderStatus(status) {
		return nil, domain.Invalid("estado de orden desconocido %q", status)
	}
	return uc.search(ctx, repository.OrderFilter{Status: status}, "")
}

// Search filtra por proveedor, estado y rango de fechas de orden (todos opcionales).
func (uc *OrderUseCase) Search(ctx context.Context, in dto.OrderSearchRequest) ([]dto.PurchaseOrderResponse, error) {
	filter := repository.OrderFilter{SupplierID: in.SupplierID, Status: strings.ToUpper(in.Status)}
	if filter.Status != "" && !entity.IsValidOrderStatus(filter.Status) {
		return nil, domain.Invalid("estado de orden desconocido %q", in.Status)
	}
	if in.From != "" {
		from, err := parseRequiredDate("from", in.From)
		if err != nil {
			return nil, err
		}
		filter.From = &from
	}
	if in.To != "" {
		to, err := parseRequiredDate("to", in.To)
		if err != nil {
			return nil, err
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.Invalid("el rango de fechas está invertido")
	}
	return uc.search(ctx, filter, "")
}

func (uc *OrderUseCase) search(ctx context.Context, filter repository.OrderFilter, requireSupplier string) ([]dto.PurchaseOrderResponse, error) {
	var out []dto.PurchaseOrderResponse
	err := uc.tx.RunReadOnly(ctx, func(ctx context.Context, repos ports.Repositories) error {
		if requireSupplier != "" {
			s, err := repos.Suppliers.GetByID(ctx, requireSupplier)
			if err != nil {
				return err
			}
			if s == nil {
				return domain.NotFound("proveedor", "id", requireSupplier)
			}
		}
		orders, err := repos.Orders.Search(ctx, filter)
		if err != nil {
			return err
		}
		en := newEnricher(repos)
		out = make([]dto.PurchaseOrderResponse, 0, len(orders))
		for _, o := range orders {
			r, err := en.response(ctx, o)
			if err != nil {
				return err
			}
			out = append(out, *r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update reemplaza cabecera y líneas de una orden PENDING o VALIDATED.
func (uc *OrderUseCase) Update(ctx context.Context, id string, in dto.PurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	orderDate, err := parseRequiredDate("order_date", in.OrderDate)
	if err != nil {
		return nil, err
	}
	var out *dto.PurchaseOrderResponse
	err = uc.tx.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		order, err := getOrder(ctx, repos.Orders.GetForUpdate, id)
		if err != nil {
			return err
		}
		if !order.IsModifiable() {
			return domain.InvalidState("la orden "+order.Number, order.Status, "modificar")
		}
		number := strings.TrimSpace(in.Number)
		if number != order.Number {
			exists, err := repos.Orders.ExistsByNumber(ctx, number, order.ID)
			if err != nil {
				return err
			}
			if exists {
				return domain.Duplicate("número de orden", number)
			}
		}
		supplier, err := repos.Suppliers.GetByID(ctx, in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.NotFound("proveedor", "id", in.SupplierID)
		}
		lines, err := buildLines(ctx, repos.Products, in.Lines)
		if err != nil {
			return err
		}

		order.Number = number
		order.OrderDate = orderDate
		order.SupplierID = supplier.ID
		order.Notes = in.Notes
		order.UpdatedAt = uc.now()
		order.ReplaceLines(lines)
		if err := repos.Orders.Update(ctx, order); err != nil {
			return err
		}
		out, err = newEnricher(repos).response(ctx, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete borra una orden que aún no fue recibida.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		order, err := getOrder(ctx, repos.Orders.GetForUpdate, id)
		if err != nil {
			return err
		}
		if !order.CanBeDeleted() {
			return domain.InvalidState("la orden "+order.Number, order.Status, "eliminar")
		}
		return repos.Orders.Delete(ctx, order.ID)
	})
}

// Validate PENDING -> VALIDATED.
func (uc *OrderUseCase) Validate(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, id, "validada", func(o *entity.PurchaseOrder) error { return o.Validate(uc.now()) })
}

// Cancel PENDING|VALIDATED -> CANCELLED.
func (uc *OrderUseCase) Cancel(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, id, "anulada", func(o *entity.PurchaseOrder) error { return o.Cancel(uc.now()) })
}

func (uc *OrderUseCase) transition(ctx context.Context, id, label string, apply func(*entity.PurchaseOrder) error) (*dto.PurchaseOrderResponse, error) {
	var out *dto.PurchaseOrderResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		order, err := getOrder(ctx, repos.Orders.GetForUpdate, id)
		if err != nil {
			return err
		}
		if err := apply(order); err != nil {
			return err
		}
		if err := repos.Orders.UpdateStatus(ctx, order); err != nil {
			return err
		}
		out, err = newEnricher(repos).response(ctx, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", out.ID).Str("number", out.Number).Str("status", out.Status).Msg("orden " + label)
	return out, nil
}

// Receive recepciona una orden VALIDATED: lotes, asientos IN y stock en una sola transacción.
// Sin fecha se usa el día actual (UTC).
func (uc *OrderUseCase) Receive(ctx context.Context, id, userID string, in dto.ReceiveOrderRequest) (*dto.ReceptionResponse, error) {
	receptionDate := truncateDay(uc.now())
	if in.ReceptionDate != "" {
		d, err := parseRequiredDate("reception_date", in.ReceptionDate)
		if err != nil {
			return nil, err
		}
		receptionDate = d
	}

	var (
		out   *dto.ReceptionResponse
		units int
	)
	err := uc.tx.Run(ctx, func(ctx context.Context, repos ports.Repositories) error {
		order, err := getOrder(ctx, repos.Orders.GetForUpdate, id)
		if err != nil {
			return err
		}
		res, err := uc.reception.Receive(ctx, repos, order, receptionDate, in.Notes, userID)
		if err != nil {
			return err
		}
		resp, err := newEnricher(repos).response(ctx, order)
		if err != nil {
			return err
		}
		out = &dto.ReceptionResponse{Order: *resp, Batches: make([]dto.BatchResponse, 0, len(res.Batches))}
		for _, b := range res.Batches {
			out.Batches = append(out.Batches, inventory.ToBatchResponse(b))
			units += b.InitialQuantity
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", out.Order.ID).Str("number", out.Order.Number).
		Int("lines", len(out.Batches)).Int("units", units).Msg("orden recibida")
	return out, nil
}

// ExportXML documento XML de la orden; devuelve también el número para el nombre de archivo.
func (uc *OrderUseCase) ExportXML(ctx context.Context, id string) ([]byte, string, error) {
	if uc.exporter == nil {
		return nil, "", domain.Invalid("exportación XML no configurada")
	}
	var (
		order    *entity.PurchaseOrder
		supplier *entity.Supplier
		products map[string]*entity.Product
	)
	err := uc.tx.RunReadOnly(ctx, func(ctx context.Context, repos ports.Repositories) error {
		var err error
		if order, err = getOrder(ctx, repos.Orders.GetByID, id); err != nil {
			return err
		}
		en := newEnricher(repos)
		if supplier, err = en.supplier(ctx, order.SupplierID); err != nil {
			return err
		}
		for _, l := range order.Lines {
			if _, err := en.product(ctx, l.ProductID); err != nil {
				return err
			}
		}
		products = en.products
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	data, err := uc.exporter.ExportOrder(order, supplier, products)
	if err != nil {
		return nil, "", err
	}
	return data, order.Number, nil
}

func buildLines(ctx context.Context, products repository.ProductRepository, in []dto.OrderLineRequest) ([]entity.OrderLine, error) {
	if len(in) == 0 {
		return nil, domain.Invalid("la orden debe tener al menos una línea")
	}
	lines := make([]entity.OrderLine, 0, len(in))
	for _, l := range in {
		p, err := products.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NotFound("producto", "id", l.ProductID)
		}
		line, err := entity.NewOrderLine(uuid.New().String(), p.ID, l.Quantity, l.UnitPrice)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func getOrder(ctx context.Context, get func(context.Context, string) (*entity.PurchaseOrder, error), id string) (*entity.PurchaseOrder, error) {
	order, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NotFound("orden de compra", "id", id)
	}
	return order, nil
}

func parseRequiredDate(field, value string) (time.Time, error) {
	d, err := dto.ParseDate(value)
	if err != nil {
		return time.Time{}, domain.Invalid("%s debe tener formato %s, recibido %q", field, dto.DateLayout, value)
	}
	return d, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
