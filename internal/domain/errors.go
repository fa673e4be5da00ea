package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrPersistence       = errors.New("error de persistencia")
	ErrUnknownUnit       = errors.New("unidad no soportada")
)

// ValidationError describe una entrada rechazada antes de cualquier cálculo.
// errors.Is(err, ErrInvalidInput) es verdadero para todo ValidationError.
type ValidationError struct {
	Field  string
	Reason string
	Err    error // causa específica opcional (p. ej. ErrUnknownUnit)
}

// NewValidationError construye un ValidationError para el campo indicado.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// Is permite errors.Is(err, ErrInvalidInput) y errors.Is(err, causa).
func (e *ValidationError) Is(target error) bool {
	if target == ErrInvalidInput {
		return true
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

// Shortfall faltante de un material en el pre-chequeo de descuento de stock.
type Shortfall struct {
	MaterialName string          `json:"material_name"`
	Required     decimal.Decimal `json:"required"`
	Available    decimal.Decimal `json:"available"`
	Missing      decimal.Decimal `json:"missing"`
	Unit         string          `json:"unit"`
}

// InsufficientStockError agrupa todos los materiales sin stock suficiente.
// Ningún descuento se aplica cuando se devuelve este error.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	if len(e.Shortfalls) == 0 {
		return ErrInsufficientStock.Error()
	}
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s (faltan %s %s)", s.MaterialName, s.Missing.String(), s.Unit))
	}
	return ErrInsufficientStock.Error() + ": " + strings.Join(parts, ", ")
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
