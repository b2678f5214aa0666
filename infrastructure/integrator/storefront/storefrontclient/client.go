// Package storefrontclient fala com o backend REST da loja (pedidos, clientes, catálogo, busca e pagamento)
package storefrontclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/storefront-api/internal/config"
	"github.com/vfg2006/storefront-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client interface {
	GetOrders(ctx context.Context) (OrdersResponse, error)
	GetCustomers(ctx context.Context) (CustomersResponse, error)

	GetProducts(ctx context.Context) (ProductsResponse, error)
	CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int, input domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	GetCategories(ctx context.Context) (CategoriesResponse, error)
	GetCategory(ctx context.Context, name string) (*domain.Category, error)

	SearchProducts(ctx context.Context, query string) (SearchResponse, error)
	GeneratePaymentURL(ctx context.Context, req domain.PaymentURLRequest) (*domain.PaymentURLResponse, error)
}

type StorefrontClient struct {
	httpClient *http.Client
	config     *config.Config
}

// StatusError é devolvido quando o backend responde fora da faixa 2xx
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("requisição falhou com status: %s (%s)", e.Status, e.Body)
	}
	return fmt.Sprintf("requisição falhou com status: %s", e.Status)
}

func NewClient(cfg *config.Config) Client {
	timeout := cfg.Storefront.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &StorefrontClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: cfg,
	}
}

// do monta a URL a partir da base configurada, envia o corpo em JSON e decodifica a resposta em out
func (c *StorefrontClient) do(ctx context.Context, method, resource string, query url.Values, body, out any) error {
	endpoint, err := url.Parse(c.config.Storefront.URL)
	if err != nil {
		return fmt.Errorf("erro ao analisar a URL base: %w", err)
	}
	endpoint.Path = path.Join(endpoint.Path, resource)
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("erro ao serializar o corpo: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("erro ao criar a requisição: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao executar a requisição: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(bytes.TrimSpace(snippet)),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("erro ao decodificar a resposta: %w", err)
	}

	return nil
}
