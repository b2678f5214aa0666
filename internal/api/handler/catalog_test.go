package handler

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront"
	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront/mocks"
	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront/storefrontclient"
	"github.com/vfg2006/storefront-api/infrastructure/storage"
	"github.com/vfg2006/storefront-api/internal/api/handler/router"
	"github.com/vfg2006/storefront-api/internal/domain"
	"github.com/vfg2006/storefront-api/internal/usecases/carting"
	"github.com/vfg2006/storefront-api/internal/usecases/cataloging"
	"github.com/vfg2006/storefront-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func newCatalogRouter(t *testing.T, gateway storefront.CatalogGateway) http.Handler {
	t.Helper()

	carts := carting.NewService(storage.NewMemoryStorage(), nil)
	t.Cleanup(carts.Close)

	return router.New(
		router.WithRoutes(Carts(carts)...),
		router.WithRoutes(Catalog(cataloging.NewService(gateway), carts)...),
	)
}

func catalogFixture() []domain.Product {
	office := &domain.ProductCategory{CatName: "Office"}
	return []domain.Product{
		{ID: 1, Name: "Pen", Price: decimal.NewFromInt(10), Quantity: 2, Stock: domain.StockRunningLow, Category: office},
		{ID: 2, Name: "Notebook", Price: decimal.NewFromInt(25), Quantity: 0, Stock: domain.StockOutOfStock, Category: office},
		{ID: 3, Name: "Mug", Price: decimal.NewFromInt(30), Quantity: 10, Stock: domain.StockInStock},
	}
}

func TestListProducts_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGateway := mocks.NewMockCatalogGateway(ctrl)
	mockGateway.EXPECT().ListProducts(gomock.Any()).Return(catalogFixture(), nil).Times(2)

	h := newCatalogRouter(t, mockGateway)

	rec := doRequest(t, h, http.MethodGet, "/v1/products?search=office", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 2)

	rec = doRequest(t, h, http.MethodGet, "/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 3)
}

func TestListProducts_UpstreamError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGateway := mocks.NewMockCatalogGateway(ctrl)
	mockGateway.EXPECT().ListProducts(gomock.Any()).
		Return(nil, &storefrontclient.StatusError{StatusCode: http.StatusInternalServerError, Status: "500 Internal Server Error"})

	h := newCatalogRouter(t, mockGateway)

	rec := doRequest(t, h, http.MethodGet, "/v1/products", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, apiErrors.ErrExternalService, decodeAPIError(t, rec).Code)
}

func TestAddProductToCart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGateway := mocks.NewMockCatalogGateway(ctrl)
	mockGateway.EXPECT().ListProducts(gomock.Any()).Return(catalogFixture(), nil).AnyTimes()

	h := newCatalogRouter(t, mockGateway)

	// Três adições do Pen com 2 em estoque param em 2
	for i := 0; i < 3; i++ {
		rec := doRequest(t, h, http.MethodPost, "/v1/carts/abc/products/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(t, h, http.MethodGet, "/v1/carts/abc", nil)
	cart := decodeCart(t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 2, cart.Items[0].Stock)

	rec = doRequest(t, h, http.MethodPost, "/v1/carts/abc/products/2", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/v1/carts/abc/products/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminProducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGateway := mocks.NewMockCatalogGateway(ctrl)
	h := newCatalogRouter(t, mockGateway)

	input := domain.ProductInput{Name: "Stapler", Price: decimal.NewFromInt(15), Quantity: 4}

	mockGateway.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).
		Return(&domain.Product{ID: 7, Name: "Stapler", Price: decimal.NewFromInt(15), Quantity: 4}, nil)

	rec := doRequest(t, h, http.MethodPost, "/v1/admin/products", input)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 7, created.ID)

	// Nome vazio não chega ao backend
	rec = doRequest(t, h, http.MethodPut, "/v1/admin/products/7", domain.ProductInput{Price: decimal.NewFromInt(1)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mockGateway.EXPECT().DeleteProduct(gomock.Any(), 7).Return(nil)
	rec = doRequest(t, h, http.MethodDelete, "/v1/admin/products/7", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	mockGateway.EXPECT().DeleteProduct(gomock.Any(), 8).Return(storefront.ErrNotFound)
	rec = doRequest(t, h, http.MethodDelete, "/v1/admin/products/8", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
