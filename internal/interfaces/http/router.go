package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Purchases     PurchaseService
	Materials     MaterialService
	ProductPrices ProductPriceService
	JWTSecret     string
	Location      *time.Location // zona para fechas YYYY-MM-DD en filtros
	// HealthCheck verifica dependencias (BD); nil = siempre ok.
	HealthCheck func(ctx context.Context) error
	ServiceName string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.HealthCheck != nil {
			if err := deps.HealthCheck(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": deps.ServiceName})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Compras
	purchases := api.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.Purchases, deps.Location)
	purchases.Post("/", purchaseHandler.Record)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Put("/:id", purchaseHandler.Update)
	purchases.Delete("/:id", purchaseHandler.Delete)

	// Ledger de materiales (export antes de :name)
	materials := api.Group("/materials")
	materialHandler := NewMaterialHandler(deps.Materials)
	materials.Get("/", materialHandler.List)
	materials.Get("/export", materialHandler.Export)
	materials.Get("/:name/latest-purchase", purchaseHandler.LatestForMaterial)
	materials.Get("/:name", materialHandler.Get)

	// Precios de producto (quote antes de :id)
	prices := api.Group("/product-prices")
	priceHandler := NewProductPriceHandler(deps.ProductPrices, deps.Location)
	prices.Post("/quote", priceHandler.Quote)
	prices.Post("/", priceHandler.Create)
	prices.Get("/", priceHandler.List)
	prices.Get("/:id/pdf", priceHandler.PDF)
	prices.Get("/:id", priceHandler.GetByID)
	prices.Delete("/:id", priceHandler.Delete)
}
