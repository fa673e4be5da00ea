package inventory

import (
	"context"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		purchases repository.PurchaseRepository,
		ledger repository.MaterialLedgerRepository,
		prices repository.ProductPriceRepository,
	) error) error
}

// LedgerCache cache de lectura de los materiales de un dueño. Un fallo del cache nunca
// rompe la operación: el use case registra el error y sigue contra la BD.
// Generation se lee antes de consultar la BD y se pasa a SetMaterials, que no escribe
// si hubo un Invalidate entre medio.
type LedgerCache interface {
	GetMaterials(ctx context.Context, ownerID string) ([]*entity.MaterialLedgerEntry, bool, error)
	Generation(ctx context.Context, ownerID string) (int64, error)
	SetMaterials(ctx context.Context, ownerID string, entries []*entity.MaterialLedgerEntry, gen int64) error
	Invalidate(ctx context.Context, ownerID string) error
}

// NopCache LedgerCache vacío para cuando Redis no está configurado.
type NopCache struct{}

func (NopCache) GetMaterials(context.Context, string) ([]*entity.MaterialLedgerEntry, bool, error) {
	return nil, false, nil
}
func (NopCache) Generation(context.Context, string) (int64, error) { return 0, nil }
func (NopCache) SetMaterials(context.Context, string, []*entity.MaterialLedgerEntry, int64) error {
	return nil
}
func (NopCache) Invalidate(context.Context, string) error { return nil }
