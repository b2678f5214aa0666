package storefront

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront/storefrontclient"
	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront/storefrontclient/mocks"
	"github.com/vfg2006/storefront-api/internal/config"
	"github.com/vfg2006/storefront-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestStorefrontService_ListOrders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	service := New(&config.Config{}, mockClient)

	tests := []struct {
		name      string
		setup     func()
		expectLen int
		expectErr bool
	}{
		{
			name: "Envelope com pedidos",
			setup: func() {
				mockClient.EXPECT().GetOrders(gomock.Any()).
					Return(storefrontclient.OrdersResponse{Orders: []domain.Order{{ID: 1}, {ID: 2}}}, nil)
			},
			expectLen: 2,
		},
		{
			name: "Envelope sem pedidos vira lista vazia",
			setup: func() {
				mockClient.EXPECT().GetOrders(gomock.Any()).Return(storefrontclient.OrdersResponse{}, nil)
			},
			expectLen: 0,
		},
		{
			name: "Falha de transporte",
			setup: func() {
				mockClient.EXPECT().GetOrders(gomock.Any()).Return(storefrontclient.OrdersResponse{}, errors.New("connection refused"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			orders, err := service.ListOrders(context.Background())
			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "erro ao buscar pedidos")
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, orders)
			assert.Len(t, orders, tt.expectLen)
		})
	}
}

func TestStorefrontService_GetCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	service := New(&config.Config{}, mockClient)

	mockClient.EXPECT().GetCategory(gomock.Any(), "Livros").
		Return(nil, &storefrontclient.StatusError{StatusCode: http.StatusNotFound, Status: "404 Not Found"})

	_, err := service.GetCategory(context.Background(), "Livros")
	assert.ErrorIs(t, err, ErrNotFound)

	mockClient.EXPECT().GetCategory(gomock.Any(), "Vazia").Return(nil, nil)

	_, err = service.GetCategory(context.Background(), "Vazia")
	assert.ErrorIs(t, err, ErrNotFound)

	mockClient.EXPECT().GetCategory(gomock.Any(), "Papelaria").
		Return(&domain.Category{ID: 2, CatName: "Papelaria"}, nil)

	category, err := service.GetCategory(context.Background(), "Papelaria")
	require.NoError(t, err)
	assert.Equal(t, 2, category.ID)
}

func TestStorefrontService_DeleteProduct(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	service := New(&config.Config{}, mockClient)

	mockClient.EXPECT().DeleteProduct(gomock.Any(), 5).
		Return(&storefrontclient.StatusError{StatusCode: http.StatusBadGateway, Status: "502 Bad Gateway"})

	err := service.DeleteProduct(context.Background(), 5)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
