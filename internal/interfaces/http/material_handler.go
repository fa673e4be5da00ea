package http

import (
	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MaterialHandler consultas del ledger de materiales (protegido).
type MaterialHandler struct {
	svc MaterialService
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(svc MaterialService) *MaterialHandler {
	return &MaterialHandler{svc: svc}
}

// List godoc
// @Summary      Listar materiales
// @Description  Stock y costo promedio de cada material, ordenados por nombre, con el valor total del inventario.
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MaterialListResponse
// @Router       /api/materials [get]
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return unauthorized(c)
	}
	out, err := h.svc.List(c.UserContext(), ownerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar materiales a Excel
// @Tags         materials
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file
// @Router       /api/materials/export [get]
func (h *MaterialHandler) Export(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return unauthorized(c)
	}
	res, err := h.svc.Export(c.UserContext(), ownerID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.FileName+`"`)
	return c.Send(res.FileContent)
}

// Get godoc
// @Summary      Obtener material
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre del material (sensible a mayúsculas)"
// @Success      200   {object}  dto.MaterialResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/materials/{name} [get]
func (h *MaterialHandler) Get(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return unauthorized(c)
	}
	out, err := h.svc.Get(c.UserContext(), ownerID, pathParam(c, "name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
