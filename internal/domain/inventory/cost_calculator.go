package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// Escala de redondeo de los agregados. CostScale es la escala del costo por kg; el costo por g
// lleva 3 decimales más para conservar la misma información al cambiar de unidad.
const (
	CostScale     int32 = 6
	QuantityScale int32 = 6
)

// CostScaleFor escala del costo por unidad expresado en u.
func CostScaleFor(u entity.Unit) int32 {
	if u == entity.UnitGram {
		return CostScale + 3
	}
	return CostScale
}

// LedgerState estado agregado de un material: stock y costo promedio en Unit.
type LedgerState struct {
	Stock       decimal.Decimal
	Unit        entity.Unit
	CostPerUnit decimal.Decimal
}

// PurchaseLot medidas propias de una compra.
type PurchaseLot struct {
	Quantity     decimal.Decimal
	Unit         entity.Unit
	PricePerUnit decimal.Decimal
}

// StateOf extrae el estado agregado de una entrada del ledger (nil si no existe).
func StateOf(e *entity.MaterialLedgerEntry) *LedgerState {
	if e == nil {
		return nil
	}
	return &LedgerState{Stock: e.Stock, Unit: e.Unit, CostPerUnit: e.CostPerUnit}
}

// LotOf extrae el lote de una compra registrada.
func LotOf(p *entity.PurchaseEvent) PurchaseLot {
	return PurchaseLot{Quantity: p.Quantity, Unit: p.Unit, PricePerUnit: p.PricePerUnit}
}

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Todos los valores deben estar expresados en la misma unidad.
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// Accumulate incorpora una compra al agregado previo. La unidad de la compra pasa a ser
// la unidad del agregado; el stock y costo previos se normalizan a ella.
// prior nil significa material nuevo: stock = cantidad y costo = precio, sin promediar.
// Cada llamada modela una compra real; aplicarla dos veces la cuenta dos veces.
func Accumulate(prior *LedgerState, lot PurchaseLot) (LedgerState, error) {
	if err := validateLot(lot); err != nil {
		return LedgerState{}, err
	}
	if prior == nil {
		return LedgerState{
			Stock:       lot.Quantity.Round(QuantityScale),
			Unit:        lot.Unit,
			CostPerUnit: lot.PricePerUnit.Round(CostScaleFor(lot.Unit)),
		}, nil
	}
	priorStock, err := NormalizeQuantity(prior.Stock, prior.Unit, lot.Unit)
	if err != nil {
		return LedgerState{}, err
	}
	priorCost, err := NormalizeCostPerUnit(prior.CostPerUnit, prior.Unit, lot.Unit)
	if err != nil {
		return LedgerState{}, err
	}
	return LedgerState{
		Stock:       priorStock.Add(lot.Quantity).Round(QuantityScale),
		Unit:        lot.Unit,
		CostPerUnit: CostCalculator(priorStock, priorCost, lot.Quantity, lot.PricePerUnit).Round(CostScaleFor(lot.Unit)),
	}, nil
}

// Reverse retira del agregado la contribución de una compra ya registrada (edición o borrado).
// El resultado conserva la unidad del agregado. Si el stock restante quedaría negativo
// (la compra ya fue consumida) devuelve InsufficientStockError.
func Reverse(current LedgerState, lot PurchaseLot, materialName string) (LedgerState, error) {
	if err := validateLot(lot); err != nil {
		return LedgerState{}, err
	}
	qty, err := NormalizeQuantity(lot.Quantity, lot.Unit, current.Unit)
	if err != nil {
		return LedgerState{}, err
	}
	price, err := NormalizeCostPerUnit(lot.PricePerUnit, lot.Unit, current.Unit)
	if err != nil {
		return LedgerState{}, err
	}
	newStock := current.Stock.Sub(qty)
	if newStock.IsNegative() {
		return LedgerState{}, &domain.InsufficientStockError{Shortfalls: []domain.Shortfall{{
			MaterialName: materialName,
			Required:     qty,
			Available:    current.Stock,
			Missing:      newStock.Neg(),
			Unit:         current.Unit.String(),
		}}}
	}
	out := LedgerState{Stock: newStock.Round(QuantityScale), Unit: current.Unit, CostPerUnit: decimal.Zero}
	if newStock.IsZero() {
		return out, nil
	}
	value := current.Stock.Mul(current.CostPerUnit).Sub(qty.Mul(price))
	if value.IsNegative() {
		// El stock consumido salió al costo promedio; el valor residual no puede ser negativo.
		value = decimal.Zero
	}
	out.CostPerUnit = value.Div(newStock).Round(CostScaleFor(current.Unit))
	return out, nil
}

// Adjust reemplaza la contribución de una compra editada: revierte old y acumula updated.
func Adjust(current LedgerState, old, updated PurchaseLot, materialName string) (LedgerState, error) {
	if err := validateLot(updated); err != nil {
		return LedgerState{}, err
	}
	reversed, err := Reverse(current, old, materialName)
	if err != nil {
		return LedgerState{}, err
	}
	return Accumulate(&reversed, updated)
}

func validateLot(lot PurchaseLot) error {
	if err := checkUnits(lot.Unit); err != nil {
		return err
	}
	if !lot.Quantity.IsPositive() {
		return domain.NewValidationError("quantity", "la cantidad debe ser mayor que cero")
	}
	if lot.PricePerUnit.IsNegative() {
		return domain.NewValidationError("price_per_unit", "el precio no puede ser negativo")
	}
	return nil
}
