package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialLedgerEntry agregado de stock y costo promedio ponderado de un material.
// Hay una sola entrada por (OwnerID, MaterialName); el nombre es sensible a mayúsculas.
// Version se incrementa en cada escritura y sirve como token de concurrencia optimista.
type MaterialLedgerEntry struct {
	ID             string
	OwnerID        string
	MaterialName   string
	Stock          decimal.Decimal // en Unit, nunca negativo
	Unit           Unit
	CostPerUnit    decimal.Decimal // costo por una unidad de Unit
	LastPurchaseAt time.Time
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StockValue valor del inventario a costo promedio (Stock * CostPerUnit).
func (e *MaterialLedgerEntry) StockValue() decimal.Decimal {
	return e.Stock.Mul(e.CostPerUnit)
}
