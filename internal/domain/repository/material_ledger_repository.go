package repository

import (
	"context"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// MaterialLedgerRepository define el puerto para el agregado de stock y costo por material.
// Las escrituras son condicionales: la versión leída actúa como token de concurrencia optimista.
type MaterialLedgerRepository interface {
	// Get devuelve la entrada del material o nil si el dueño nunca lo compró.
	Get(ctx context.Context, ownerID, materialName string) (*entity.MaterialLedgerEntry, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE). Solo dentro de una tx.
	GetForUpdate(ctx context.Context, ownerID, materialName string) (*entity.MaterialLedgerEntry, error)
	List(ctx context.Context, ownerID string) ([]*entity.MaterialLedgerEntry, error)
	// Insert crea la entrada con versión 1. Devuelve false si otra escritura la creó antes.
	Insert(ctx context.Context, entry *entity.MaterialLedgerEntry) (bool, error)
	// UpdateIfVersion escribe la entrada solo si la versión almacenada sigue siendo expectedVersion;
	// en ese caso la incrementa. Devuelve false si hubo una escritura concurrente.
	UpdateIfVersion(ctx context.Context, entry *entity.MaterialLedgerEntry, expectedVersion int64) (bool, error)
}
