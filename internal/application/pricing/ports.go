package pricing

import (
	"context"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		purchases repository.PurchaseRepository,
		ledger repository.MaterialLedgerRepository,
		prices repository.ProductPriceRepository,
	) error) error
}

// CostSheetGenerator genera la hoja de costos (PDF) de un cálculo guardado.
type CostSheetGenerator interface {
	GenerateCostSheetPDF(ctx context.Context, record *entity.ProductPriceRecord) ([]byte, error)
}

// CacheInvalidator se notifica cuando un guardado descuenta stock del ledger.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, ownerID string) error
}
