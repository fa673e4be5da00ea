package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/inventory"
	"github.com/jhoicas/Costeo-api/internal/domain"
	apphttp "github.com/jhoicas/Costeo-api/internal/interfaces/http"
)

type testAPI struct {
	app       *fiber.App
	purchases *MockPurchaseService
	materials *MockMaterialService
	prices    *MockProductPriceService
}

func newTestAPI(health func(context.Context) error) *testAPI {
	api := &testAPI{
		app:       fiber.New(),
		purchases: new(MockPurchaseService),
		materials: new(MockMaterialService),
		prices:    new(MockProductPriceService),
	}
	apphttp.Router(api.app, apphttp.RouterDeps{
		Purchases:     api.purchases,
		Materials:     api.materials,
		ProductPrices: api.prices,
		JWTSecret:     testJWTSecret,
		Location:      time.UTC,
		HealthCheck:   health,
		ServiceName:   "costeo-api",
	})
	return api
}

func (a *testAPI) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", bearer(t))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Compras
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchases_Record(t *testing.T) {
	api := newTestAPI(nil)
	api.purchases.On("Record", mock.Anything, testUserID, mock.MatchedBy(func(in dto.RecordPurchaseRequest) bool {
		return in.Material == "Cera" && in.Quantity.Equal(d("10")) && in.Unit == "kg" && in.PricePerUnit.Equal(d("50"))
	})).Return(&dto.RecordPurchaseResponse{
		Purchase: dto.PurchaseResponse{ID: "p-1", Material: "Cera"},
		Ledger:   dto.MaterialResponse{Name: "Cera", Stock: d("10"), Unit: "kg", CostPerUnit: d("50")},
	}, nil).Once()

	resp := api.do(t, http.MethodPost, "/api/purchases", `{"material":"Cera","quantity":10,"unit":"kg","price_per_unit":"50"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.RecordPurchaseResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, "p-1", out.Purchase.ID)
	assert.True(t, d("50").Equal(out.Ledger.CostPerUnit))
	api.purchases.AssertExpectations(t)
}

func TestPurchases_Record_Validacion(t *testing.T) {
	api := newTestAPI(nil)
	api.purchases.On("Record", mock.Anything, testUserID, mock.Anything).
		Return(nil, domain.NewValidationError("unit", "unidad no soportada: lb")).Once()

	resp := api.do(t, http.MethodPost, "/api/purchases", `{"material":"Cera","quantity":1,"unit":"lb","price_per_unit":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Equal(t, "unit", out.Field)
}

func TestPurchases_Record_CuerpoInvalido(t *testing.T) {
	api := newTestAPI(nil)
	resp := api.do(t, http.MethodPost, "/api/purchases", `{"material":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	api.purchases.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchases_List_RangoDeFechas(t *testing.T) {
	api := newTestAPI(nil)
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	api.purchases.On("List", mock.Anything, testUserID, mock.MatchedBy(func(in dto.ListPurchasesRequest) bool {
		return in.Material == "Cera" && in.From.Equal(from) && in.To.Equal(to) && in.Limit == 5
	})).Return(&dto.PurchaseListResponse{Items: []dto.PurchaseResponse{}, Page: dto.PageResponse{Limit: 5}}, nil).Once()

	resp := api.do(t, http.MethodGet, "/api/purchases?material=Cera&from=2024-05-01&to=2024-05-02&limit=5", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	api.purchases.AssertExpectations(t)
}

func TestPurchases_List_FechaInvalida(t *testing.T) {
	api := newTestAPI(nil)
	resp := api.do(t, http.MethodGet, "/api/purchases?from=ayer", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPurchases_Delete_StockConsumido(t *testing.T) {
	api := newTestAPI(nil)
	api.purchases.On("Delete", mock.Anything, testUserID, "p-1").Return(&domain.InsufficientStockError{
		Shortfalls: []domain.Shortfall{{MaterialName: "Cera", Required: d("5"), Available: d("3"), Missing: d("2"), Unit: "kg"}},
	}).Once()

	resp := api.do(t, http.MethodDelete, "/api/purchases/p-1", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var out dto.InsufficientStockResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, "INSUFFICIENT_STOCK", out.Code)
	require.Len(t, out.Shortfalls, 1)
	assert.True(t, d("2").Equal(out.Shortfalls[0].Missing))
}

func TestPurchases_Get_Persistencia(t *testing.T) {
	api := newTestAPI(nil)
	api.purchases.On("Get", mock.Anything, testUserID, "p-1").
		Return(nil, fmt.Errorf("get purchase: %w: %w", domain.ErrPersistence, errors.New("conn refused"))).Once()

	resp := api.do(t, http.MethodGet, "/api/purchases/p-1", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestPurchases_SinToken(t *testing.T) {
	api := newTestAPI(nil)
	resp, err := api.app.Test(httptest.NewRequest(http.MethodGet, "/api/purchases", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Materiales
// ──────────────────────────────────────────────────────────────────────────────

func TestMaterials_Get_NombreCodificado(t *testing.T) {
	api := newTestAPI(nil)
	api.materials.On("Get", mock.Anything, testUserID, "Ácido cítrico").
		Return(&dto.MaterialResponse{Name: "Ácido cítrico", Unit: "kg"}, nil).Once()

	resp := api.do(t, http.MethodGet, "/api/materials/%C3%81cido%20c%C3%ADtrico", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	api.materials.AssertExpectations(t)
}

func TestMaterials_Export(t *testing.T) {
	api := newTestAPI(nil)
	api.materials.On("Export", mock.Anything, testUserID).
		Return(&inventory.ExportResult{FileContent: []byte("xlsx"), FileName: "materiales.xlsx"}, nil).Once()

	resp := api.do(t, http.MethodGet, "/api/materials/export", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "materiales.xlsx")
	api.materials.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestMaterials_LatestPurchase(t *testing.T) {
	api := newTestAPI(nil)
	api.purchases.On("GetLatest", mock.Anything, testUserID, "Cera").
		Return(&dto.PurchaseResponse{ID: "p-9", Material: "Cera"}, nil).Once()
	api.purchases.On("GetLatest", mock.Anything, testUserID, "Nada").
		Return(nil, nil).Once()

	resp := api.do(t, http.MethodGet, "/api/materials/Cera/latest-purchase", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.PurchaseResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, "p-9", out.ID)

	resp = api.do(t, http.MethodGet, "/api/materials/Nada/latest-purchase", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var e dto.ErrorResponse
	decodeBody(t, resp, &e)
	assert.Equal(t, "NO_RECORD", e.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Precios de producto
// ──────────────────────────────────────────────────────────────────────────────

const priceBody = `{"name":"Jabón","materials":[{"material_name":"Cera","quantity":"500","unit":"g"}],"num_bottles":100,"cost_per_bottle":5,"deduct_stock":true}`

func TestProductPrices_Quote(t *testing.T) {
	api := newTestAPI(nil)
	api.prices.On("Quote", mock.Anything, testUserID, mock.MatchedBy(func(in dto.ProductPriceRequest) bool {
		return in.Name == "Jabón" && len(in.Materials) == 1 && in.NumBottles == 100
	})).Return(&dto.QuoteResponse{Name: "Jabón", StockOK: true, Calculations: dto.PriceBreakdownResponse{TotalSellingPrice: d("1898.4")}}, nil).Once()

	resp := api.do(t, http.MethodPost, "/api/product-prices/quote", priceBody)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.QuoteResponse
	decodeBody(t, resp, &out)
	assert.True(t, d("1898.4").Equal(out.Calculations.TotalSellingPrice))
	api.prices.AssertNotCalled(t, "CalculateAndSave", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductPrices_Create_StockInsuficiente(t *testing.T) {
	api := newTestAPI(nil)
	api.prices.On("CalculateAndSave", mock.Anything, testUserID, mock.Anything).Return(nil, &domain.InsufficientStockError{
		Shortfalls: []domain.Shortfall{
			{MaterialName: "Cera", Required: d("500"), Available: d("100"), Missing: d("400"), Unit: "g"},
			{MaterialName: "Aceite", Required: d("2"), Available: d("0"), Missing: d("2"), Unit: "kg"},
		},
	}).Once()

	resp := api.do(t, http.MethodPost, "/api/product-prices", priceBody)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var out dto.InsufficientStockResponse
	decodeBody(t, resp, &out)
	assert.Len(t, out.Shortfalls, 2)
	assert.Equal(t, "Aceite", out.Shortfalls[1].MaterialName)
}

func TestProductPrices_Create(t *testing.T) {
	api := newTestAPI(nil)
	api.prices.On("CalculateAndSave", mock.Anything, testUserID, mock.Anything).
		Return(&dto.ProductPriceResponse{ID: "pp-1", Name: "Jabón", StockDeducted: true}, nil).Once()

	resp := api.do(t, http.MethodPost, "/api/product-prices", priceBody)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.ProductPriceResponse
	decodeBody(t, resp, &out)
	assert.True(t, out.StockDeducted)
}

func TestProductPrices_List_PorDia(t *testing.T) {
	api := newTestAPI(nil)
	api.prices.On("List", mock.Anything, testUserID, mock.MatchedBy(func(in dto.ListProductPricesRequest) bool {
		return in.Name == "jab" && in.Date == "2024-05-02" && in.Limit == 20 && in.From == nil
	})).Return(&dto.ProductPriceListResponse{Items: []dto.ProductPriceResponse{}}, nil).Once()

	resp := api.do(t, http.MethodGet, "/api/product-prices?name=jab&date=2024-05-02", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	api.prices.AssertExpectations(t)
}

func TestProductPrices_PDF(t *testing.T) {
	api := newTestAPI(nil)
	api.prices.On("RenderPDF", mock.Anything, testUserID, "pp-1").
		Return([]byte("%PDF-1.3"), "costeo_jab_n_20240502.pdf", nil).Once()

	resp := api.do(t, http.MethodGet, "/api/product-prices/pp-1/pdf", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "costeo_jab_n_20240502.pdf")
}

func TestProductPrices_Delete_NoExiste(t *testing.T) {
	api := newTestAPI(nil)
	api.prices.On("Delete", mock.Anything, testUserID, "pp-x").
		Return(fmt.Errorf("cálculo pp-x: %w", domain.ErrNotFound)).Once()

	resp := api.do(t, http.MethodDelete, "/api/product-prices/pp-x", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Health
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	ok := newTestAPI(func(context.Context) error { return nil })
	resp, err := ok.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	down := newTestAPI(func(context.Context) error { return errors.New("db down") })
	resp, err = down.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
