package storefrontclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vfg2006/storefront-api/internal/domain"
)

type SearchResponse []domain.SearchProduct

func (c *StorefrontClient) SearchProducts(ctx context.Context, q string) (SearchResponse, error) {
	var response SearchResponse

	query := url.Values{}
	query.Set("q", q)

	err := c.do(ctx, http.MethodGet, "/search", query, nil, &response)
	return response, err
}
