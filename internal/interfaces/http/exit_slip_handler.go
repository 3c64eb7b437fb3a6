package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gestion-stock-api/internal/application/dto"
	"github.com/jhoicas/gestion-stock-api/internal/application/exitslip"
)

// ExitSlipHandler maneja los bons de salida (protegido).
type ExitSlipHandler struct {
	uc *exitslip.UseCase
}

// NewExitSlipHandler construye el handler.
func NewExitSlipHandler(uc *exitslip.UseCase) *ExitSlipHandler {
	return &ExitSlipHandler{uc: uc}
}

// Create godoc
// @Summary      Crear bon de salida (DRAFT)
// @Tags         exit-slips
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ExitSlipRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.ExitSlipResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/exit-slips [post]
func (h *ExitSlipHandler) Create(c *fiber.Ctx) error {
	var in dto.ExitSlipRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar bons (fecha de salida descendente)
// @Tags         exit-slips
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ExitSlipResponse
// @Router       /api/v1/exit-slips [get]
func (h *ExitSlipHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByWorkshop godoc
// @Summary      Bons de un taller
// @Tags         exit-slips
// @Security     Bearer
// @Produce      json
// @Param        workshop  path  string  true  "Taller"
// @Success      200  {array}  dto.ExitSlipResponse
// @Router       /api/v1/exit-slips/workshop/{workshop} [get]
func (h *ExitSlipHandler) ListByWorkshop(c *fiber.Ctx) error {
	out, err := h.uc.ListByWorkshop(c.UserContext(), c.Params("workshop"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener bon
// @Tags         exit-slips
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del bon"
// @Success      200  {object}  dto.ExitSlipResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/exit-slips/{id} [get]
func (h *ExitSlipHandler) GetByID(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar bon (solo DRAFT)
// @Tags         exit-slips
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del bon"
// @Param        body  body  dto.ExitSlipRequest  true  "Cabecera y líneas"
// @Success      200   {object}  dto.ExitSlipResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/v1/exit-slips/{id} [put]
func (h *ExitSlipHandler) Update(c *fiber.Ctx) error {
	var in dto.ExitSlipRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Validate godoc
// @Summary      Validar bon: consume lotes en orden FIFO
// @Description  Todas las líneas se procesan en una transacción; si una falla no se descuenta nada.
// @Tags         exit-slips
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del bon"
// @Success      200  {object}  dto.ExitSlipValidationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/v1/exit-slips/{id}/validate [post]
func (h *ExitSlipHandler) Validate(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Validate(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Anular bon (solo DRAFT)
// @Tags         exit-slips
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del bon"
// @Success      200  {object}  dto.ExitSlipResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/v1/exit-slips/{id}/cancel [post]
func (h *ExitSlipHandler) Cancel(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Cancel(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportPDF godoc
// @Summary      Bon en PDF
// @Tags         exit-slips
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del bon"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/exit-slips/{id}/pdf [get]
func (h *ExitSlipHandler) ExportPDF(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	data, number, err := h.uc.ExportPDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="bon-%s.pdf"`, number))
	return c.Send(data)
}
