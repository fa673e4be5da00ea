package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordPurchaseRequest body para POST /api/purchases.
type RecordPurchaseRequest struct {
	Material     string           `json:"material" validate:"required"`
	Dealer       string           `json:"dealer"`
	GSTNumber    string           `json:"gst_number"`
	Description  string           `json:"description"`
	Quantity     decimal.Decimal  `json:"quantity" validate:"required"`
	Unit         string           `json:"unit" validate:"required"` // kg | g
	PricePerUnit decimal.Decimal  `json:"price_per_unit"`
	GSTAmount    *decimal.Decimal `json:"gst_amount,omitempty"`
	HamaliCharge *decimal.Decimal `json:"hamali_charge,omitempty"`
	BillPhotoURL string           `json:"bill_photo_url,omitempty"`
	// Timestamp opcional para compras registradas con fecha de factura; por defecto ahora.
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// UpdatePurchaseRequest body para PUT /api/purchases/:id. Solo se cambian los campos enviados.
// El material no se puede cambiar: se borra la compra y se registra otra.
type UpdatePurchaseRequest struct {
	Dealer       *string          `json:"dealer"`
	GSTNumber    *string          `json:"gst_number"`
	Description  *string          `json:"description"`
	Quantity     *decimal.Decimal `json:"quantity"`
	Unit         *string          `json:"unit"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit"`
	GSTAmount    *decimal.Decimal `json:"gst_amount"`
	HamaliCharge *decimal.Decimal `json:"hamali_charge"`
	BillPhotoURL *string          `json:"bill_photo_url"`
}

// ListPurchasesRequest filtros de GET /api/purchases.
type ListPurchasesRequest struct {
	Material string     `query:"material"`
	From     *time.Time `query:"-"` // RFC3339 o YYYY-MM-DD, lo parsea el handler
	To       *time.Time `query:"-"`
	PageRequest
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID           string          `json:"id"`
	Material     string          `json:"material"`
	Dealer       string          `json:"dealer"`
	GSTNumber    string          `json:"gst_number"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	GSTAmount    decimal.Decimal `json:"gst_amount"`
	HamaliCharge decimal.Decimal `json:"hamali_charge"`
	LandedCost   decimal.Decimal `json:"landed_cost"`
	BillPhotoURL string          `json:"bill_photo_url,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
}

// RecordPurchaseResponse compra registrada junto con el agregado resultante del material.
type RecordPurchaseResponse struct {
	Purchase PurchaseResponse `json:"purchase"`
	Ledger   MaterialResponse `json:"ledger"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
