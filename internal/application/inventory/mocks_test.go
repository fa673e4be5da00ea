package inventory_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

// MockPurchaseRepo mock de repository.PurchaseRepository.
type MockPurchaseRepo struct {
	mock.Mock
}

func (m *MockPurchaseRepo) Create(ctx context.Context, p *entity.PurchaseEvent) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPurchaseRepo) GetByID(ctx context.Context, ownerID, id string) (*entity.PurchaseEvent, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PurchaseEvent), args.Error(1)
}

func (m *MockPurchaseRepo) Update(ctx context.Context, p *entity.PurchaseEvent) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPurchaseRepo) Delete(ctx context.Context, ownerID, id string) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockPurchaseRepo) List(ctx context.Context, ownerID string, f repository.PurchaseFilter) ([]*entity.PurchaseEvent, int, error) {
	args := m.Called(ctx, ownerID, f)
	return args.Get(0).([]*entity.PurchaseEvent), args.Int(1), args.Error(2)
}

func (m *MockPurchaseRepo) ListByMaterial(ctx context.Context, ownerID, materialName string) ([]*entity.PurchaseEvent, error) {
	args := m.Called(ctx, ownerID, materialName)
	return args.Get(0).([]*entity.PurchaseEvent), args.Error(1)
}

// MockLedgerRepo mock de repository.MaterialLedgerRepository.
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Get(ctx context.Context, ownerID, materialName string) (*entity.MaterialLedgerEntry, error) {
	args := m.Called(ctx, ownerID, materialName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.MaterialLedgerEntry), args.Error(1)
}

func (m *MockLedgerRepo) GetForUpdate(ctx context.Context, ownerID, materialName string) (*entity.MaterialLedgerEntry, error) {
	args := m.Called(ctx, ownerID, materialName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.MaterialLedgerEntry), args.Error(1)
}

func (m *MockLedgerRepo) List(ctx context.Context, ownerID string) ([]*entity.MaterialLedgerEntry, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*entity.MaterialLedgerEntry), args.Error(1)
}

func (m *MockLedgerRepo) Insert(ctx context.Context, e *entity.MaterialLedgerEntry) (bool, error) {
	args := m.Called(ctx, e)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepo) UpdateIfVersion(ctx context.Context, e *entity.MaterialLedgerEntry, expectedVersion int64) (bool, error) {
	args := m.Called(ctx, e, expectedVersion)
	return args.Bool(0), args.Error(1)
}

// MockCache mock de inventory.LedgerCache.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetMaterials(ctx context.Context, ownerID string) ([]*entity.MaterialLedgerEntry, bool, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*entity.MaterialLedgerEntry), args.Bool(1), args.Error(2)
}

func (m *MockCache) Generation(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) SetMaterials(ctx context.Context, ownerID string, entries []*entity.MaterialLedgerEntry, gen int64) error {
	return m.Called(ctx, ownerID, entries, gen).Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, ownerID string) error {
	return m.Called(ctx, ownerID).Error(0)
}

// fakeTx ejecuta fn con los mocks, sin BD; runs cuenta las transacciones abiertas.
type fakeTx struct {
	purchases *MockPurchaseRepo
	ledger    *MockLedgerRepo
	runs      int
}

func (f *fakeTx) Run(_ context.Context, fn func(
	repository.PurchaseRepository,
	repository.MaterialLedgerRepository,
	repository.ProductPriceRepository,
) error) error {
	f.runs++
	return fn(f.purchases, f.ledger, nil)
}
