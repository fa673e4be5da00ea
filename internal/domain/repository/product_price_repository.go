package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// ProductPriceFilter búsqueda de cálculos guardados por nombre (contiene, sin mayúsculas) y rango [From, To).
type ProductPriceFilter struct {
	Name     string
	From, To *time.Time
	Limit    int
	Offset   int
}

// ProductPriceRepository define el puerto de persistencia para cálculos de precio de producto.
type ProductPriceRepository interface {
	Create(ctx context.Context, r *entity.ProductPriceRecord) error
	GetByID(ctx context.Context, ownerID, id string) (*entity.ProductPriceRecord, error)
	List(ctx context.Context, ownerID string, f ProductPriceFilter) ([]*entity.ProductPriceRecord, int, error)
	// Delete devuelve domain.ErrNotFound si no había registro.
	Delete(ctx context.Context, ownerID, id string) error
}
