package http

import (
	"context"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/inventory"
)

// PurchaseService operaciones de compras que expone la API (inventory.PurchaseUseCase).
type PurchaseService interface {
	Record(ctx context.Context, ownerID string, in dto.RecordPurchaseRequest) (*dto.RecordPurchaseResponse, error)
	Update(ctx context.Context, ownerID, id string, in dto.UpdatePurchaseRequest) (*dto.PurchaseResponse, error)
	Delete(ctx context.Context, ownerID, id string) error
	Get(ctx context.Context, ownerID, id string) (*dto.PurchaseResponse, error)
	List(ctx context.Context, ownerID string, in dto.ListPurchasesRequest) (*dto.PurchaseListResponse, error)
	GetLatest(ctx context.Context, ownerID, material string) (*dto.PurchaseResponse, error)
}

// MaterialService consultas del ledger (inventory.MaterialQueryUseCase).
type MaterialService interface {
	List(ctx context.Context, ownerID string) (*dto.MaterialListResponse, error)
	Get(ctx context.Context, ownerID, name string) (*dto.MaterialResponse, error)
	Export(ctx context.Context, ownerID string) (*inventory.ExportResult, error)
}

// ProductPriceService cálculo de precios (pricing.ProductPriceUseCase).
type ProductPriceService interface {
	Quote(ctx context.Context, ownerID string, in dto.ProductPriceRequest) (*dto.QuoteResponse, error)
	CalculateAndSave(ctx context.Context, ownerID string, in dto.ProductPriceRequest) (*dto.ProductPriceResponse, error)
	Get(ctx context.Context, ownerID, id string) (*dto.ProductPriceResponse, error)
	List(ctx context.Context, ownerID string, in dto.ListProductPricesRequest) (*dto.ProductPriceListResponse, error)
	Delete(ctx context.Context, ownerID, id string) error
	RenderPDF(ctx context.Context, ownerID, id string) ([]byte, string, error)
}
