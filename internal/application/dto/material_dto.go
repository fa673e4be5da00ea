package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialResponse entrada del ledger de un material.
type MaterialResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Stock          decimal.Decimal `json:"stock"`
	Unit           string          `json:"unit"`
	CostPerUnit    decimal.Decimal `json:"cost_per_unit"`
	StockValue     decimal.Decimal `json:"stock_value"`
	LastPurchaseAt time.Time       `json:"last_purchase_at"`
	Version        int64           `json:"version"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// MaterialListResponse materiales del usuario ordenados por nombre.
type MaterialListResponse struct {
	Items      []MaterialResponse `json:"items"`
	TotalValue decimal.Decimal    `json:"total_value"`
}
