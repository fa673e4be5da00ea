package pricing

import (
	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// ToProductPriceResponse adapta un cálculo guardado a su DTO.
func ToProductPriceResponse(r *entity.ProductPriceRecord) dto.ProductPriceResponse {
	return dto.ProductPriceResponse{
		ID:            r.ID,
		Name:          r.Name,
		Materials:     toUsageResponses(r.MaterialsUsed),
		NumBottles:    r.Bottle.NumBottles,
		CostPerBottle: r.Bottle.CostPerBottle,
		Calculations:  toBreakdownResponse(r.Calculations),
		StockDeducted: r.StockDeducted,
		Timestamp:     r.Timestamp,
	}
}

// ToShortfallResponses adapta los faltantes de un InsufficientStockError.
func ToShortfallResponses(in []domain.Shortfall) []dto.ShortfallResponse {
	out := make([]dto.ShortfallResponse, 0, len(in))
	for _, s := range in {
		out = append(out, dto.ShortfallResponse{
			MaterialName: s.MaterialName,
			Required:     s.Required,
			Available:    s.Available,
			Missing:      s.Missing,
			Unit:         s.Unit,
		})
	}
	return out
}

func toUsageResponses(in []entity.MaterialUsage) []dto.MaterialUsageResponse {
	out := make([]dto.MaterialUsageResponse, 0, len(in))
	for _, u := range in {
		out = append(out, dto.MaterialUsageResponse{
			MaterialID:   u.MaterialID,
			MaterialName: u.MaterialName,
			Quantity:     u.Quantity,
			Unit:         u.Unit.String(),
			CostPerUnit:  u.CostPerUnit,
			TotalCost:    u.TotalCost,
		})
	}
	return out
}

func toBreakdownResponse(b entity.PriceBreakdown) dto.PriceBreakdownResponse {
	return dto.PriceBreakdownResponse{
		MaterialsCost:     b.MaterialsCost,
		BottleCost:        b.BottleCost,
		BaseCost:          b.BaseCost,
		Margin1Rate:       b.Margin1Rate,
		Margin1:           b.Margin1,
		Margin2Rate:       b.Margin2Rate,
		Margin2:           b.Margin2,
		TotalSellingPrice: b.TotalSellingPrice,
		GrossPerBottle:    b.GrossPerBottle,
	}
}
