package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialUsage línea del bill-of-materials congelada al momento del cálculo.
type MaterialUsage struct {
	MaterialID   string          `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         Unit            `json:"unit"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"` // en Unit de la línea
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// BottleInfo envases del lote costeado.
type BottleInfo struct {
	NumBottles    int64           `json:"num_bottles"`
	CostPerBottle decimal.Decimal `json:"cost_per_bottle"`
}

// PriceBreakdown resultado del cálculo de precio con doble margen.
type PriceBreakdown struct {
	MaterialsCost     decimal.Decimal `json:"materials_cost"`
	BottleCost        decimal.Decimal `json:"bottle_cost"`
	BaseCost          decimal.Decimal `json:"base_cost"`
	Margin1           decimal.Decimal `json:"margin1"`
	Margin2           decimal.Decimal `json:"margin2"`
	TotalSellingPrice decimal.Decimal `json:"total_selling_price"`
	GrossPerBottle    decimal.Decimal `json:"gross_per_bottle"`
	Margin1Rate       decimal.Decimal `json:"margin1_rate"`
	Margin2Rate       decimal.Decimal `json:"margin2_rate"`
}

// ProductPriceRecord cálculo de precio guardado (inmutable salvo borrado).
type ProductPriceRecord struct {
	ID            string
	OwnerID       string
	Name          string
	MaterialsUsed []MaterialUsage
	Bottle        BottleInfo
	Calculations  PriceBreakdown
	StockDeducted bool // true si el guardado descontó stock del ledger
	Timestamp     time.Time
}
