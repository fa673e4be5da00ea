package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// Tasas por defecto del doble margen: 13% sobre el costo base y 12% sobre costo+margen1.
var (
	DefaultMargin1Rate = decimal.RequireFromString("0.13")
	DefaultMargin2Rate = decimal.RequireFromString("0.12")
)

// MoneyScale decimales con que se expresan los montos calculados.
const MoneyScale int32 = 6

// PriceCalculator calcula el precio de venta con dos márgenes configurables.
type PriceCalculator struct {
	m1Rate decimal.Decimal
	m2Rate decimal.Decimal
}

// NewPriceCalculator construye el calculador. Las tasas son fracciones (0.13 = 13%).
func NewPriceCalculator(m1Rate, m2Rate decimal.Decimal) (*PriceCalculator, error) {
	if m1Rate.IsNegative() {
		return nil, domain.NewValidationError("margin1_rate", "la tasa no puede ser negativa")
	}
	if m2Rate.IsNegative() {
		return nil, domain.NewValidationError("margin2_rate", "la tasa no puede ser negativa")
	}
	return &PriceCalculator{m1Rate: m1Rate, m2Rate: m2Rate}, nil
}

// Price calcula el desglose:
//
//	bottleCost = bottleCount * costPerBottle
//	baseCost   = materialsCost + bottleCost
//	margin1    = baseCost * M1
//	margin2    = (baseCost + margin1) * M2
//	total      = baseCost + margin1 + margin2
//	perBottle  = total / bottleCount
//
// bottleCount <= 0 se rechaza antes de dividir.
func (c *PriceCalculator) Price(materialsCost decimal.Decimal, bottleCount int64, costPerBottle decimal.Decimal) (entity.PriceBreakdown, error) {
	if bottleCount <= 0 {
		return entity.PriceBreakdown{}, domain.NewValidationError("num_bottles", "el número de envases debe ser mayor que cero")
	}
	if materialsCost.IsNegative() {
		return entity.PriceBreakdown{}, domain.NewValidationError("materials_cost", "el costo de materiales no puede ser negativo")
	}
	if costPerBottle.IsNegative() {
		return entity.PriceBreakdown{}, domain.NewValidationError("cost_per_bottle", "el costo por envase no puede ser negativo")
	}
	count := decimal.NewFromInt(bottleCount)
	bottleCost := count.Mul(costPerBottle)
	baseCost := materialsCost.Add(bottleCost)
	margin1 := baseCost.Mul(c.m1Rate)
	margin2 := baseCost.Add(margin1).Mul(c.m2Rate)
	total := baseCost.Add(margin1).Add(margin2)

	return entity.PriceBreakdown{
		MaterialsCost:     materialsCost.Round(MoneyScale),
		BottleCost:        bottleCost.Round(MoneyScale),
		BaseCost:          baseCost.Round(MoneyScale),
		Margin1:           margin1.Round(MoneyScale),
		Margin2:           margin2.Round(MoneyScale),
		TotalSellingPrice: total.Round(MoneyScale),
		GrossPerBottle:    total.Div(count).Round(MoneyScale),
		Margin1Rate:       c.m1Rate,
		Margin2Rate:       c.m2Rate,
	}, nil
}

// LineCost costea una línea del bill-of-materials con el costo promedio del ledger.
// Devuelve el costo por unidad expresado en la unidad de la línea y el costo total.
func LineCost(consumed Quantity, entry LedgerState) (costPerUnit, total decimal.Decimal, err error) {
	if consumed.Value.IsNegative() {
		return decimal.Zero, decimal.Zero, domain.NewValidationError("quantity", "la cantidad no puede ser negativa")
	}
	costPerUnit, err = NormalizeCostPerUnit(entry.CostPerUnit, entry.Unit, consumed.Unit)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return costPerUnit, consumed.Value.Mul(costPerUnit).Round(MoneyScale), nil
}

// LandedState costo por unidad de una compra incluyendo GST y hamali, en la unidad de la
// compra. Sirve para costear una línea con LineCost al costo desembolsado.
func LandedState(p *entity.PurchaseEvent) LedgerState {
	perUnit := decimal.Zero
	if p.Quantity.IsPositive() {
		perUnit = p.LandedCost().Div(p.Quantity).Round(CostScaleFor(p.Unit))
	}
	return LedgerState{Stock: p.Quantity, Unit: p.Unit, CostPerUnit: perUnit}
}
