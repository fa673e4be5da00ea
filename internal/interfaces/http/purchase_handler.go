package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/metrics"
)

// PurchaseHandler maneja las compras de materia prima (protegido).
type PurchaseHandler struct {
	svc PurchaseService
	loc *time.Location
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(svc PurchaseService, loc *time.Location) *PurchaseHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &PurchaseHandler{svc: svc, loc: loc}
}

// Record godoc
// @Summary      Registrar compra de material
// @Description  Agrega la compra al historial y actualiza stock y costo promedio ponderado del material.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordPurchaseRequest  true  "material, quantity, unit (kg|g), price_per_unit"
// @Success      201   {object}  dto.RecordPurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Record(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return unauthorized(c)
	}
	var in dto.RecordPurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Record(c.UserContext(), ownerID, in)
	metrics.RecordOperation("record_purchase", err == nil)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar compras
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        material  query  string  false  "Nombre exacto del material"
// @Param        from      query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to        query  string  false  "Hasta (RFC3339 o YYYY-MM-DD, día incluido)"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.PurchaseListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return unauthorized(c)
	}
	from, err := timeQuery(c, "from", h.loc, false)
	if err != nil {
		return writeError(c, err)
	}
	to, err := timeQuery(c, "to", h.loc, true)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.List(c.UserContext(), ownerID, dto.ListPurchasesRequest{
		Material:    c.Query("material"),
		From:        from,
		To:          to,
		PageRequest: pageQuery(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return unauthorized(c)
	}
	out, err := h.svc.Get(c.UserContext(), ownerID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar compra
// @Description  Revierte el lote anterior del agregado y aplica el nuevo. El material no se puede cambiar.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la compra"
// @Param        body  body  dto.UpdatePurchaseRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/purchases/{id} [put]
func (h *PurchaseHandler) Update(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return unauthorized(c)
	}
	var in dto.UpdatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Update(c.UserContext(), ownerID, c.Params("id"), in)
	metrics.RecordOperation("update_purchase", err == nil)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar compra
// @Description  Revierte el lote del agregado. Falla con 409 si ese stock ya se consumió.
// @Tags         purchases
// @Security     Bearer
// @Param        id   path  string  true  "ID de la compra"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.InsufficientStockResponse
// @Router       /api/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return unauthorized(c)
	}
	err := h.svc.Delete(c.UserContext(), ownerID, c.Params("id"))
	metrics.RecordOperation("delete_purchase", err == nil)
	if err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LatestForMaterial godoc
// @Summary      Última compra de un material
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre del material (sensible a mayúsculas)"
// @Success      200   {object}  dto.PurchaseResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/materials/{name}/latest-purchase [get]
func (h *PurchaseHandler) LatestForMaterial(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return unauthorized(c)
	}
	name := pathParam(c, "name")
	out, err := h.svc.GetLatest(c.UserContext(), ownerID, name)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_RECORD", Message: "sin compras registradas para " + name})
	}
	return c.JSON(out)
}
