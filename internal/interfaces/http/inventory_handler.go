package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gestion-stock-api/internal/application/dto"
	"github.com/jhoicas/gestion-stock-api/internal/application/inventory"
)

// InventoryHandler consultas de stock, valorización FIFO y libro de movimientos (protegido).
type InventoryHandler struct {
	stock     *inventory.StockQueryUseCase
	movements *inventory.MovementQueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock *inventory.StockQueryUseCase, movements *inventory.MovementQueryUseCase) *InventoryHandler {
	return &InventoryHandler{stock: stock, movements: movements}
}

// GlobalState godoc
// @Summary      Estado de stock por producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockStateResponse
// @Router       /api/v1/stock [get]
func (h *InventoryHandler) GlobalState(c *fiber.Ctx) error {
	out, err := h.stock.GlobalState(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProductValuation godoc
// @Summary      Lotes disponibles y valorización FIFO de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductValuationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/stock/products/{id} [get]
func (h *InventoryHandler) ProductValuation(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.stock.ProductValuation(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Alerts godoc
// @Summary      Productos bajo el punto de pedido
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockAlertResponse
// @Router       /api/v1/stock/alerts [get]
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	out, err := h.stock.Alerts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GlobalValuation godoc
// @Summary      Valorización global del stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GlobalValuationResponse
// @Router       /api/v1/stock/valuation [get]
func (h *InventoryHandler) GlobalValuation(c *fiber.Ctx) error {
	out, err := h.stock.GlobalValuation(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Consistency godoc
// @Summary      Compara el stock de cada producto con la suma de sus lotes
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ConsistencyResponse
// @Router       /api/v1/stock/consistency [get]
func (h *InventoryHandler) Consistency(c *fiber.Ctx) error {
	out, err := h.stock.Reconcile(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SearchMovements godoc
// @Summary      Buscar movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "ID del producto"
// @Param        reference   query  string  false  "Referencia del producto"
// @Param        type        query  string  false  "IN | OUT"
// @Param        lot_number  query  string  false  "Número de lote"
// @Param        from        query  string  false  "Desde (aaaa-mm-dd)"
// @Param        to          query  string  false  "Hasta, inclusive (aaaa-mm-dd)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/stock/movements [get]
func (h *InventoryHandler) SearchMovements(c *fiber.Ctx) error {
	var in dto.MovementSearchRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	in.Limit, in.Offset = pageParams(c)
	out, err := h.movements.Search(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MovementsByProduct godoc
// @Summary      Historial de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {array}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/stock/movements/products/{id} [get]
func (h *InventoryHandler) MovementsByProduct(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.movements.ByProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
