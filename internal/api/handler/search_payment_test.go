package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront/mocks"
	"github.com/vfg2006/storefront-api/internal/api/handler/router"
	"github.com/vfg2006/storefront-api/internal/domain"
	"github.com/vfg2006/storefront-api/internal/usecases/paying"
	"github.com/vfg2006/storefront-api/internal/usecases/searching"
	"github.com/vfg2006/storefront-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func TestSearchProducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSearcher := mocks.NewMockProductSearcher(ctrl)
	h := router.New(router.WithRoutes(Search(searching.NewService(mockSearcher))...))

	mockSearcher.EXPECT().SearchProducts(gomock.Any(), "pen").
		Return([]domain.SearchProduct{{ID: 1, Name: "Pen", Price: decimal.NewFromInt(10), Stock: domain.StockInStock}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/search?q=pen", nil)
	req.Header.Set(SessionHeader, "tab-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Applied)
	assert.Equal(t, "pen", resp.Query)
	require.Len(t, resp.Results, 1)

	// Consulta vazia não chama o backend
	rec = doRequest(t, h, http.MethodGet, "/v1/search?q=", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Results)
}

func TestCreatePaymentURL(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		setup      func(m *mocks.MockPaymentGateway)
		wantStatus int
		wantCode   string
		wantURL    string
	}{
		{
			name: "sucesso",
			body: map[string]any{"orderId": "ORDER_1", "amount": 150},
			setup: func(m *mocks.MockPaymentGateway) {
				m.EXPECT().GeneratePaymentURL(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, req domain.PaymentURLRequest) (*domain.PaymentURLResponse, error) {
						assert.Equal(t, paying.DefaultOrderInfo, req.OrderInfo)
						return &domain.PaymentURLResponse{PaymentURL: "https://pay.example/1"}, nil
					})
			},
			wantStatus: http.StatusOK,
			wantURL:    "https://pay.example/1",
		},
		{
			name:       "valor zerado",
			body:       map[string]any{"amount": 0},
			setup:      func(*mocks.MockPaymentGateway) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidRequest,
		},
		{
			name: "gateway sem url",
			body: map[string]any{"amount": 10},
			setup: func(m *mocks.MockPaymentGateway) {
				m.EXPECT().GeneratePaymentURL(gomock.Any(), gomock.Any()).Return(&domain.PaymentURLResponse{}, nil)
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   apiErrors.ErrExternalService,
		},
		{
			name: "falha de rede",
			body: map[string]any{"amount": 10},
			setup: func(m *mocks.MockPaymentGateway) {
				m.EXPECT().GeneratePaymentURL(gomock.Any(), gomock.Any()).Return(nil, errors.New("dial tcp: connection refused"))
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   apiErrors.ErrExternalService,
		},
		{
			name:       "corpo inválido",
			body:       "[",
			setup:      func(*mocks.MockPaymentGateway) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockGateway := mocks.NewMockPaymentGateway(ctrl)
			tt.setup(mockGateway)

			h := router.New(router.WithRoutes(Payments(paying.NewService(mockGateway))...))

			rec := doRequest(t, h, http.MethodPost, "/v1/payments/url", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeAPIError(t, rec).Code)
				return
			}

			var resp domain.PaymentURLResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantURL, resp.PaymentURL)
		})
	}
}

func TestCronHandlers_Disabled(t *testing.T) {
	h := router.New(router.WithRoutes(CronJobs(CronJobServices{})...))

	rec := doRequest(t, h, http.MethodPost, "/v1/admin/cron/run/monthly-snapshots", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, apiErrors.ErrServiceDisabled, decodeAPIError(t, rec).Code)

	rec = doRequest(t, h, http.MethodPost, "/v1/admin/cron/run/unknown", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/v1/admin/cron/status", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "{}", rec.Body.String())
}
