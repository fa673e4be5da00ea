package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseEvent compra de materia prima (registro de solo anexar).
// Quantity, Unit y PricePerUnit describen el lote comprado, no el agregado.
type PurchaseEvent struct {
	ID           string
	OwnerID      string
	Material     string
	Dealer       string
	GSTNumber    string
	Description  string
	Quantity     decimal.Decimal
	Unit         Unit
	PricePerUnit decimal.Decimal
	TotalPrice   decimal.Decimal // Quantity * PricePerUnit
	GSTAmount    decimal.Decimal // impuesto pagado en la factura
	HamaliCharge decimal.Decimal // cargue/descargue
	BillPhotoURL string
	Timestamp    time.Time
	UpdatedAt    *time.Time
}

// LandedCost costo total desembolsado: precio + GST + hamali.
func (p *PurchaseEvent) LandedCost() decimal.Decimal {
	return p.TotalPrice.Add(p.GSTAmount).Add(p.HamaliCharge)
}
