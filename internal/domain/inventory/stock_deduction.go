package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// Quantity cantidad con su unidad.
type Quantity struct {
	Value decimal.Decimal
	Unit  entity.Unit
}

// DeductionResult resultado de descontar un consumo de una entrada del ledger.
type DeductionResult struct {
	NewStock     decimal.Decimal
	Consumed     decimal.Decimal // consumo normalizado a la unidad del ledger
	Insufficient bool
	Shortfall    decimal.Decimal // solo si Insufficient
}

// Deduct calcula el stock resultante de consumir consumed. No aplica nada: si el consumo
// supera el stock informa Insufficient y el faltante, y la política la decide el caller.
func Deduct(entry LedgerState, consumed Quantity) (DeductionResult, error) {
	if consumed.Value.IsNegative() {
		return DeductionResult{}, domain.NewValidationError("quantity", "el consumo no puede ser negativo")
	}
	qty, err := NormalizeQuantity(consumed.Value, consumed.Unit, entry.Unit)
	if err != nil {
		return DeductionResult{}, err
	}
	if qty.GreaterThan(entry.Stock) {
		return DeductionResult{
			NewStock:     entry.Stock,
			Consumed:     qty,
			Insufficient: true,
			Shortfall:    qty.Sub(entry.Stock),
		}, nil
	}
	newStock := entry.Stock.Sub(qty)
	if newStock.IsNegative() {
		newStock = decimal.Zero
	}
	return DeductionResult{NewStock: newStock.Round(QuantityScale), Consumed: qty}, nil
}

// DeductionLine línea del bill-of-materials a descontar. Entry nil = material sin registro.
type DeductionLine struct {
	MaterialName string
	Entry        *LedgerState
	Consumed     Quantity
}

// PlannedDeduction descuento validado listo para aplicarse.
type PlannedDeduction struct {
	MaterialName  string
	PreviousStock decimal.Decimal
	Consumed      decimal.Decimal
	NewStock      decimal.Decimal
	Unit          entity.Unit
}

// PlanDeductions hace el pre-chequeo de todas las líneas antes de aplicar cualquier descuento.
// Las líneas del mismo material se suman. Si algún material no alcanza devuelve
// InsufficientStockError con todos los faltantes y ningún plan: o se aplica todo o nada.
// El plan conserva el orden de primera aparición de cada material.
func PlanDeductions(lines []DeductionLine) ([]PlannedDeduction, error) {
	type acc struct {
		entry    *LedgerState
		consumed decimal.Decimal
		unit     entity.Unit
	}
	order := make([]string, 0, len(lines))
	byName := make(map[string]*acc, len(lines))

	for _, l := range lines {
		if l.Consumed.Value.IsNegative() {
			return nil, domain.NewValidationError("quantity", "el consumo no puede ser negativo")
		}
		a, ok := byName[l.MaterialName]
		if !ok {
			a = &acc{entry: l.Entry, unit: l.Consumed.Unit}
			if l.Entry != nil {
				a.unit = l.Entry.Unit
			}
			byName[l.MaterialName] = a
			order = append(order, l.MaterialName)
		}
		qty, err := NormalizeQuantity(l.Consumed.Value, l.Consumed.Unit, a.unit)
		if err != nil {
			return nil, err
		}
		a.consumed = a.consumed.Add(qty)
	}

	plan := make([]PlannedDeduction, 0, len(order))
	var shortfalls []domain.Shortfall
	for _, name := range order {
		a := byName[name]
		if a.entry == nil {
			if a.consumed.IsPositive() {
				shortfalls = append(shortfalls, domain.Shortfall{
					MaterialName: name, Required: a.consumed, Available: decimal.Zero,
					Missing: a.consumed, Unit: a.unit.String(),
				})
			}
			continue
		}
		res, err := Deduct(*a.entry, Quantity{Value: a.consumed, Unit: a.unit})
		if err != nil {
			return nil, err
		}
		if res.Insufficient {
			shortfalls = append(shortfalls, domain.Shortfall{
				MaterialName: name, Required: res.Consumed, Available: a.entry.Stock,
				Missing: res.Shortfall, Unit: a.unit.String(),
			})
			continue
		}
		plan = append(plan, PlannedDeduction{
			MaterialName:  name,
			PreviousStock: a.entry.Stock,
			Consumed:      res.Consumed,
			NewStock:      res.NewStock,
			Unit:          a.unit,
		})
	}
	if len(shortfalls) > 0 {
		return nil, &domain.InsufficientStockError{Shortfalls: shortfalls}
	}
	return plan, nil
}
