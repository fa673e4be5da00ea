package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// gramsPerKilogram factor de escala entre la unidad gruesa (kg) y la fina (g).
var gramsPerKilogram = decimal.NewFromInt(1000)

// NormalizeQuantity convierte una cantidad de from a to.
// kg→g multiplica por 1000, g→kg divide por 1000.
func NormalizeQuantity(value decimal.Decimal, from, to entity.Unit) (decimal.Decimal, error) {
	if err := checkUnits(from, to); err != nil {
		return decimal.Zero, err
	}
	switch {
	case from == to:
		return value, nil
	case from == entity.UnitKilogram && to == entity.UnitGram:
		return value.Mul(gramsPerKilogram), nil
	default:
		return value.Div(gramsPerKilogram), nil
	}
}

// NormalizeCostPerUnit convierte un costo por unidad de from a to. Es la operación dual de
// NormalizeQuantity: costo por g = costo por kg / 1000, de modo que cantidad*costo no cambia.
func NormalizeCostPerUnit(cost decimal.Decimal, from, to entity.Unit) (decimal.Decimal, error) {
	if err := checkUnits(from, to); err != nil {
		return decimal.Zero, err
	}
	switch {
	case from == to:
		return cost, nil
	case from == entity.UnitKilogram && to == entity.UnitGram:
		return cost.Div(gramsPerKilogram), nil
	default:
		return cost.Mul(gramsPerKilogram), nil
	}
}

func checkUnits(units ...entity.Unit) error {
	for _, u := range units {
		if !u.Valid() {
			return &domain.ValidationError{Field: "unit", Reason: "unidad no soportada: " + string(u), Err: domain.ErrUnknownUnit}
		}
	}
	return nil
}
