package inventory

import (
	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// ToPurchaseResponse adapta una compra a su DTO de salida.
func ToPurchaseResponse(p *entity.PurchaseEvent) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:           p.ID,
		Material:     p.Material,
		Dealer:       p.Dealer,
		GSTNumber:    p.GSTNumber,
		Description:  p.Description,
		Quantity:     p.Quantity,
		Unit:         p.Unit.String(),
		PricePerUnit: p.PricePerUnit,
		TotalPrice:   p.TotalPrice,
		GSTAmount:    p.GSTAmount,
		HamaliCharge: p.HamaliCharge,
		LandedCost:   p.LandedCost(),
		BillPhotoURL: p.BillPhotoURL,
		Timestamp:    p.Timestamp,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToMaterialResponse adapta una entrada del ledger a su DTO de salida.
func ToMaterialResponse(e *entity.MaterialLedgerEntry) dto.MaterialResponse {
	return dto.MaterialResponse{
		ID:             e.ID,
		Name:           e.MaterialName,
		Stock:          e.Stock,
		Unit:           e.Unit.String(),
		CostPerUnit:    e.CostPerUnit,
		StockValue:     e.StockValue().Round(6),
		LastPurchaseAt: e.LastPurchaseAt,
		Version:        e.Version,
		UpdatedAt:      e.UpdatedAt,
	}
}
