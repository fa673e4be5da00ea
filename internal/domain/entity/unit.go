package entity

import (
	"strings"

	"github.com/jhoicas/Costeo-api/internal/domain"
)

// Unit unidad de masa soportada para cantidades y costos por unidad.
type Unit string

// Unidades soportadas. Cualquier otra es un error de configuración.
const (
	UnitKilogram Unit = "kg"
	UnitGram     Unit = "g"
)

// ParseUnit normaliza el texto de una unidad (kg, kilogram, g, gm, gram...).
// No hace coerción silenciosa: una unidad desconocida devuelve ValidationError.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kg", "kgs", "kilo", "kilos", "kilogram", "kilograms", "kilogramo", "kilogramos":
		return UnitKilogram, nil
	case "g", "gm", "gms", "gr", "gram", "grams", "gramo", "gramos":
		return UnitGram, nil
	}
	return "", &domain.ValidationError{Field: "unit", Reason: "unidad no soportada: " + s, Err: domain.ErrUnknownUnit}
}

// Valid indica si la unidad es una de las soportadas.
func (u Unit) Valid() bool {
	return u == UnitKilogram || u == UnitGram
}

func (u Unit) String() string { return string(u) }
