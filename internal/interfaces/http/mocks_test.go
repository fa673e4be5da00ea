package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/inventory"
)

// ── MockPurchaseService ───────────────────────────────────────────────────────

type MockPurchaseService struct{ mock.Mock }

func (m *MockPurchaseService) Record(ctx context.Context, ownerID string, in dto.RecordPurchaseRequest) (*dto.RecordPurchaseResponse, error) {
	args := m.Called(ctx, ownerID, in)
	out, _ := args.Get(0).(*dto.RecordPurchaseResponse)
	return out, args.Error(1)
}

func (m *MockPurchaseService) Update(ctx context.Context, ownerID, id string, in dto.UpdatePurchaseRequest) (*dto.PurchaseResponse, error) {
	args := m.Called(ctx, ownerID, id, in)
	out, _ := args.Get(0).(*dto.PurchaseResponse)
	return out, args.Error(1)
}

func (m *MockPurchaseService) Delete(ctx context.Context, ownerID, id string) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockPurchaseService) Get(ctx context.Context, ownerID, id string) (*dto.PurchaseResponse, error) {
	args := m.Called(ctx, ownerID, id)
	out, _ := args.Get(0).(*dto.PurchaseResponse)
	return out, args.Error(1)
}

func (m *MockPurchaseService) List(ctx context.Context, ownerID string, in dto.ListPurchasesRequest) (*dto.PurchaseListResponse, error) {
	args := m.Called(ctx, ownerID, in)
	out, _ := args.Get(0).(*dto.PurchaseListResponse)
	return out, args.Error(1)
}

func (m *MockPurchaseService) GetLatest(ctx context.Context, ownerID, material string) (*dto.PurchaseResponse, error) {
	args := m.Called(ctx, ownerID, material)
	out, _ := args.Get(0).(*dto.PurchaseResponse)
	return out, args.Error(1)
}

// ── MockMaterialService ───────────────────────────────────────────────────────

type MockMaterialService struct{ mock.Mock }

func (m *MockMaterialService) List(ctx context.Context, ownerID string) (*dto.MaterialListResponse, error) {
	args := m.Called(ctx, ownerID)
	out, _ := args.Get(0).(*dto.MaterialListResponse)
	return out, args.Error(1)
}

func (m *MockMaterialService) Get(ctx context.Context, ownerID, name string) (*dto.MaterialResponse, error) {
	args := m.Called(ctx, ownerID, name)
	out, _ := args.Get(0).(*dto.MaterialResponse)
	return out, args.Error(1)
}

func (m *MockMaterialService) Export(ctx context.Context, ownerID string) (*inventory.ExportResult, error) {
	args := m.Called(ctx, ownerID)
	out, _ := args.Get(0).(*inventory.ExportResult)
	return out, args.Error(1)
}

// ── MockProductPriceService ───────────────────────────────────────────────────

type MockProductPriceService struct{ mock.Mock }

func (m *MockProductPriceService) Quote(ctx context.Context, ownerID string, in dto.ProductPriceRequest) (*dto.QuoteResponse, error) {
	args := m.Called(ctx, ownerID, in)
	out, _ := args.Get(0).(*dto.QuoteResponse)
	return out, args.Error(1)
}

func (m *MockProductPriceService) CalculateAndSave(ctx context.Context, ownerID string, in dto.ProductPriceRequest) (*dto.ProductPriceResponse, error) {
	args := m.Called(ctx, ownerID, in)
	out, _ := args.Get(0).(*dto.ProductPriceResponse)
	return out, args.Error(1)
}

func (m *MockProductPriceService) Get(ctx context.Context, ownerID, id string) (*dto.ProductPriceResponse, error) {
	args := m.Called(ctx, ownerID, id)
	out, _ := args.Get(0).(*dto.ProductPriceResponse)
	return out, args.Error(1)
}

func (m *MockProductPriceService) List(ctx context.Context, ownerID string, in dto.ListProductPricesRequest) (*dto.ProductPriceListResponse, error) {
	args := m.Called(ctx, ownerID, in)
	out, _ := args.Get(0).(*dto.ProductPriceListResponse)
	return out, args.Error(1)
}

func (m *MockProductPriceService) Delete(ctx context.Context, ownerID, id string) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockProductPriceService) RenderPDF(ctx context.Context, ownerID, id string) ([]byte, string, error) {
	args := m.Called(ctx, ownerID, id)
	out, _ := args.Get(0).([]byte)
	return out, args.String(1), args.Error(2)
}
