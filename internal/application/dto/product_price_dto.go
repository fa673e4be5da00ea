package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialLineRequest línea del bill-of-materials: material consumido y cantidad.
type MaterialLineRequest struct {
	MaterialName string          `json:"material_name" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit" validate:"required"`
}

// ProductPriceRequest body para POST /api/product-prices y /api/product-prices/quote.
type ProductPriceRequest struct {
	Name          string                `json:"name" validate:"required,min=1,max=200"`
	Materials     []MaterialLineRequest `json:"materials" validate:"required,min=1"`
	NumBottles    int64                 `json:"num_bottles" validate:"min=1"`
	CostPerBottle decimal.Decimal       `json:"cost_per_bottle"`
	// DeductStock descuenta del ledger lo consumido (solo al guardar).
	DeductStock bool `json:"deduct_stock"`
	// UseLandedCost costea cada línea con la última compra del material incluyendo GST y
	// hamali, en lugar del costo promedio del ledger. El descuento de stock no cambia.
	UseLandedCost bool `json:"use_landed_cost"`
}

// ListProductPricesRequest filtros de GET /api/product-prices.
// Date (YYYY-MM-DD) busca un día completo y tiene prioridad sobre From/To.
type ListProductPricesRequest struct {
	Name string     `query:"name"`
	Date string     `query:"date"`
	From *time.Time `query:"-"` // lo parsea el handler
	To   *time.Time `query:"-"`
	PageRequest
}

// MaterialUsageResponse línea costeada.
type MaterialUsageResponse struct {
	MaterialID   string          `json:"material_id,omitempty"`
	MaterialName string          `json:"material_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// PriceBreakdownResponse desglose del doble margen.
type PriceBreakdownResponse struct {
	MaterialsCost     decimal.Decimal `json:"materials_cost"`
	BottleCost        decimal.Decimal `json:"bottle_cost"`
	BaseCost          decimal.Decimal `json:"base_cost"`
	Margin1Rate       decimal.Decimal `json:"margin1_rate"`
	Margin1           decimal.Decimal `json:"margin1"`
	Margin2Rate       decimal.Decimal `json:"margin2_rate"`
	Margin2           decimal.Decimal `json:"margin2"`
	TotalSellingPrice decimal.Decimal `json:"total_selling_price"`
	GrossPerBottle    decimal.Decimal `json:"gross_per_bottle"`
}

// ShortfallResponse faltante de un material.
type ShortfallResponse struct {
	MaterialName string          `json:"material_name"`
	Required     decimal.Decimal `json:"required"`
	Available    decimal.Decimal `json:"available"`
	Missing      decimal.Decimal `json:"missing"`
	Unit         string          `json:"unit"`
}

// QuoteResponse cotización sin escrituras; Shortfalls indica qué no alcanzaría a descontarse.
type QuoteResponse struct {
	Name          string                  `json:"name"`
	Materials     []MaterialUsageResponse `json:"materials"`
	NumBottles    int64                   `json:"num_bottles"`
	CostPerBottle decimal.Decimal         `json:"cost_per_bottle"`
	Calculations  PriceBreakdownResponse  `json:"calculations"`
	StockOK       bool                    `json:"stock_ok"`
	Shortfalls    []ShortfallResponse     `json:"shortfalls,omitempty"`
}

// ProductPriceResponse cálculo guardado.
type ProductPriceResponse struct {
	ID            string                  `json:"id"`
	Name          string                  `json:"name"`
	Materials     []MaterialUsageResponse `json:"materials"`
	NumBottles    int64                   `json:"num_bottles"`
	CostPerBottle decimal.Decimal         `json:"cost_per_bottle"`
	Calculations  PriceBreakdownResponse  `json:"calculations"`
	StockDeducted bool                    `json:"stock_deducted"`
	Timestamp     time.Time               `json:"timestamp"`
}

// ProductPriceListResponse lista paginada de cálculos.
type ProductPriceListResponse struct {
	Items []ProductPriceResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
