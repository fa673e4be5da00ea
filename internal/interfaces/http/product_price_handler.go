package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/metrics"
)

// ProductPriceHandler cálculo de precios de producto (protegido).
type ProductPriceHandler struct {
	svc ProductPriceService
	loc *time.Location
}

// NewProductPriceHandler construye el handler.
func NewProductPriceHandler(svc ProductPriceService, loc *time.Location) *ProductPriceHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ProductPriceHandler{svc: svc, loc: loc}
}

// Quote godoc
// @Summary      Cotizar precio de producto
// @Description  Costea el bill-of-materials con el costo promedio actual. No escribe nada; informa faltantes de stock.
// @Tags         product-prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductPriceRequest  true  "name, materials, num_bottles, cost_per_bottle"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/product-prices/quote [post]
func (h *ProductPriceHandler) Quote(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return unauthorized(c)
	}
	var in dto.ProductPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Quote(c.UserContext(), ownerID, in)
	metrics.RecordOperation("quote_product_price", err == nil)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Calcular y guardar precio de producto
// @Description  Con deduct_stock=true descuenta todos los materiales o ninguno (409 con los faltantes).
// @Tags         product-prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductPriceRequest  true  "name, materials, num_bottles, cost_per_bottle, deduct_stock"
// @Success      201   {object}  dto.ProductPriceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/product-prices [post]
func (h *ProductPriceHandler) Create(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return unauthorized(c)
	}
	var in dto.ProductPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.CalculateAndSave(c.UserContext(), ownerID, in)
	metrics.RecordOperation("save_product_price", err == nil)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Buscar cálculos guardados
// @Tags         product-prices
// @Security     Bearer
// @Produce      json
// @Param        name    query  string  false  "Contiene (sin mayúsculas)"
// @Param        date    query  string  false  "Día YYYY-MM-DD (prioridad sobre from/to)"
// @Param        from    query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (RFC3339 o YYYY-MM-DD, día incluido)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ProductPriceListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/product-prices [get]
func (h *ProductPriceHandler) List(c *fiber.Ctx) error {
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
	out, err := h.svc.List(c.UserContext(), ownerID, dto.ListProductPricesRequest{
		Name:        c.Query("name"),
		Date:        c.Query("date"),
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
// @Summary      Obtener cálculo guardado
// @Tags         product-prices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cálculo"
// @Success      200  {object}  dto.ProductPriceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/product-prices/{id} [get]
func (h *ProductPriceHandler) GetByID(c *fiber.Ctx) error {
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

// PDF godoc
// @Summary      Hoja de costos en PDF
// @Tags         product-prices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del cálculo"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/product-prices/{id}/pdf [get]
func (h *ProductPriceHandler) PDF(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return unauthorized(c)
	}
	pdfBytes, filename, err := h.svc.RenderPDF(c.UserContext(), ownerID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// Delete godoc
// @Summary      Eliminar cálculo guardado
// @Description  No repone el stock descontado.
// @Tags         product-prices
// @Security     Bearer
// @Param        id   path  string  true  "ID del cálculo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/product-prices/{id} [delete]
func (h *ProductPriceHandler) Delete(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return unauthorized(c)
	}
	err := h.svc.Delete(c.UserContext(), ownerID, c.Params("id"))
	metrics.RecordOperation("delete_product_price", err == nil)
	if err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
