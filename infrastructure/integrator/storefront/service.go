package storefront

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront/storefrontclient"
	"github.com/vfg2006/storefront-api/internal/config"
	"github.com/vfg2006/storefront-api/internal/domain"
)

// ErrNotFound indica que o backend respondeu 404 ou um corpo vazio para o recurso pedido
var ErrNotFound = errors.New("recurso não encontrado no storefront")

// OrderReader alimenta o dashboard
type OrderReader interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

type CatalogGateway interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int, input domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, name string) (*domain.Category, error)
}

type ProductSearcher interface {
	SearchProducts(ctx context.Context, query string) ([]domain.SearchProduct, error)
}

type PaymentGateway interface {
	GeneratePaymentURL(ctx context.Context, req domain.PaymentURLRequest) (*domain.PaymentURLResponse, error)
}

type StorefrontIntegrator interface {
	OrderReader
	CatalogGateway
	ProductSearcher
	PaymentGateway
}

type StorefrontService struct {
	cfg    *config.Config
	Client storefrontclient.Client
}

func New(cfg *config.Config, client storefrontclient.Client) StorefrontIntegrator {
	return &StorefrontService{
		cfg:    cfg,
		Client: client,
	}
}

func (s *StorefrontService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	resp, err := s.Client.GetOrders(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar pedidos")
	}

	if resp.Orders == nil {
		return []domain.Order{}, nil
	}

	return resp.Orders, nil
}

func (s *StorefrontService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	resp, err := s.Client.GetCustomers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar clientes")
	}

	if resp == nil {
		return []domain.Customer{}, nil
	}

	return resp, nil
}

func (s *StorefrontService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	resp, err := s.Client.GetProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar produtos")
	}

	if resp == nil {
		return []domain.Product{}, nil
	}

	return resp, nil
}

func (s *StorefrontService) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	product, err := s.Client.CreateProduct(ctx, input)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar produto")
	}
	return product, nil
}

func (s *StorefrontService) UpdateProduct(ctx context.Context, id int, input domain.ProductInput) (*domain.Product, error) {
	product, err := s.Client.UpdateProduct(ctx, id, input)
	if err != nil {
		return nil, errors.Wrapf(notFound(err), "erro ao atualizar produto %d", id)
	}
	return product, nil
}

func (s *StorefrontService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.Client.DeleteProduct(ctx, id); err != nil {
		return errors.Wrapf(notFound(err), "erro ao remover produto %d", id)
	}
	return nil
}

func (s *StorefrontService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	resp, err := s.Client.GetCategories(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar categorias")
	}

	if resp == nil {
		return []domain.Category{}, nil
	}

	return resp, nil
}

func (s *StorefrontService) GetCategory(ctx context.Context, name string) (*domain.Category, error) {
	category, err := s.Client.GetCategory(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(notFound(err), "erro ao buscar categoria %q", name)
	}

	if category == nil {
		return nil, errors.Wrapf(ErrNotFound, "categoria %q", name)
	}

	return category, nil
}

func (s *StorefrontService) SearchProducts(ctx context.Context, query string) ([]domain.SearchProduct, error) {
	resp, err := s.Client.SearchProducts(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar produtos")
	}

	if resp == nil {
		return []domain.SearchProduct{}, nil
	}

	return resp, nil
}

func (s *StorefrontService) GeneratePaymentURL(ctx context.Context, req domain.PaymentURLRequest) (*domain.PaymentURLResponse, error) {
	resp, err := s.Client.GeneratePaymentURL(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar URL de pagamento")
	}
	return resp, nil
}

// notFound troca o 404 do backend pelo ErrNotFound do pacote
func notFound(err error) error {
	var statusErr *storefrontclient.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return errors.Wrap(ErrNotFound, statusErr.Error())
	}
	return err
}
