package storefrontclient

import (
	"context"
	"net/http"

	"github.com/vfg2006/storefront-api/internal/domain"
)

// OrdersResponse segue o envelope do endpoint de pedidos: {"orders": [...]}
type OrdersResponse struct {
	Orders []domain.Order `json:"orders"`
}

type CustomersResponse []domain.Customer

func (c *StorefrontClient) GetOrders(ctx context.Context) (OrdersResponse, error) {
	var response OrdersResponse
	err := c.do(ctx, http.MethodGet, "/orders", nil, nil, &response)
	return response, err
}

func (c *StorefrontClient) GetCustomers(ctx context.Context) (CustomersResponse, error) {
	var response CustomersResponse
	err := c.do(ctx, http.MethodGet, "/customers", nil, nil, &response)
	return response, err
}
