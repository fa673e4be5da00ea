package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// PurchaseFilter criterios de listado de compras; el rango es [From, To). Campos vacíos no filtran.
type PurchaseFilter struct {
	Material string
	From, To *time.Time
	Limit    int
	Offset   int
}

// PurchaseRepository define el puerto de persistencia para compras de materia prima.
type PurchaseRepository interface {
	Create(ctx context.Context, p *entity.PurchaseEvent) error
	// GetByID devuelve nil si no existe o pertenece a otro dueño.
	GetByID(ctx context.Context, ownerID, id string) (*entity.PurchaseEvent, error)
	Update(ctx context.Context, p *entity.PurchaseEvent) error
	Delete(ctx context.Context, ownerID, id string) error
	// List ordena por fecha descendente y devuelve también el total sin paginar.
	List(ctx context.Context, ownerID string, f PurchaseFilter) ([]*entity.PurchaseEvent, int, error)
	// ListByMaterial devuelve el historial completo del material en orden de inserción.
	ListByMaterial(ctx context.Context, ownerID, materialName string) ([]*entity.PurchaseEvent, error)
}
