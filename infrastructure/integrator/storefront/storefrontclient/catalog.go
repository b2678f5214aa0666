package storefrontclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vfg2006/storefront-api/internal/domain"
)

type ProductsResponse []domain.Product

type CategoriesResponse []domain.Category

func (c *StorefrontClient) GetProducts(ctx context.Context) (ProductsResponse, error) {
	var response ProductsResponse
	err := c.do(ctx, http.MethodGet, "/products", nil, nil, &response)
	return response, err
}

func (c *StorefrontClient) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct e DeleteProduct identificam o produto pela query ?id=
func (c *StorefrontClient) UpdateProduct(ctx context.Context, id int, input domain.ProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPut, "/products", productQuery(id), input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *StorefrontClient) DeleteProduct(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/products", productQuery(id), nil, nil)
}

func (c *StorefrontClient) GetCategories(ctx context.Context) (CategoriesResponse, error) {
	var response CategoriesResponse
	err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &response)
	return response, err
}

func (c *StorefrontClient) GetCategory(ctx context.Context, name string) (*domain.Category, error) {
	var category *domain.Category

	query := url.Values{}
	query.Set("category", name)

	if err := c.do(ctx, http.MethodGet, "/categories", query, nil, &category); err != nil {
		return nil, err
	}
	return category, nil
}

func productQuery(id int) url.Values {
	query := url.Values{}
	query.Set("id", strconv.Itoa(id))
	return query
}
