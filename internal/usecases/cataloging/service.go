// Package cataloging repassa o catálogo do storefront para o painel e para o carrinho
package cataloging

import (
	"context"
	"errors"
	"strings"

	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront"
	"github.com/vfg2006/storefront-api/internal/domain"
	"github.com/vfg2006/storefront-api/internal/usecases/carting"
	"github.com/vfg2006/storefront-api/pkg/log"
)

var (
	ErrInvalidProduct  = errors.New("invalid product data")
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product out of stock")
)

type Service struct {
	gateway storefront.CatalogGateway
}

func NewService(gateway storefront.CatalogGateway) *Service {
	return &Service{gateway: gateway}
}

// ListProducts filtra por nome, categoria ou status de estoque, sem diferenciar maiúsculas
func (s *Service) ListProducts(ctx context.Context, search string) ([]domain.Product, error) {
	products, err := s.gateway.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	return FilterProducts(products, search), nil
}

func FilterProducts(products []domain.Product, search string) []domain.Product {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return products
	}

	filtered := make([]domain.Product, 0, len(products))
	for _, product := range products {
		if matches(product, term) {
			filtered = append(filtered, product)
		}
	}

	return filtered
}

func matches(product domain.Product, term string) bool {
	if strings.Contains(strings.ToLower(product.Name), term) {
		return true
	}

	if product.Category != nil && strings.Contains(strings.ToLower(product.Category.CatName), term) {
		return true
	}

	return strings.Contains(strings.ToLower(string(product.Stock)), term)
}

func (s *Service) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	product, err := s.gateway.CreateProduct(ctx, input)
	if err != nil {
		return nil, err
	}

	log.ForContext(ctx).WithField("product_id", product.ID).Info("Produto criado")
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int, input domain.ProductInput) (*domain.Product, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	product, err := s.gateway.UpdateProduct(ctx, id, input)
	if err != nil {
		return nil, err
	}

	log.ForContext(ctx).WithField("product_id", id).Info("Produto atualizado")
	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int) error {
	if err := s.gateway.DeleteProduct(ctx, id); err != nil {
		return err
	}

	log.ForContext(ctx).WithField("product_id", id).Info("Produto removido")
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.gateway.ListCategories(ctx)
}

func (s *Service) GetCategory(ctx context.Context, name string) (*domain.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidProduct
	}
	return s.gateway.GetCategory(ctx, name)
}

// AddToCartItem converte o produto do catálogo em linha de carrinho: uma unidade,
// com a quantidade disponível como estoque
func AddToCartItem(product domain.Product) domain.CartItem {
	return domain.CartItem{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Quantity: 1,
		Stock:    product.Quantity,
	}
}

// AddProductToCart busca o produto no catálogo e adiciona uma unidade ao carrinho
func (s *Service) AddProductToCart(ctx context.Context, store *carting.Store, productID int) (*domain.CartItem, error) {
	products, err := s.gateway.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	for _, product := range products {
		if product.ID != productID {
			continue
		}

		if product.Quantity <= 0 || product.Stock == domain.StockOutOfStock {
			return nil, ErrOutOfStock
		}

		item := AddToCartItem(product)
		if err := store.AddItem(ctx, item); err != nil {
			return nil, err
		}

		log.ForContext(ctx).WithFields(log.Fields{
			"product_id": productID,
			"cart_key":   store.Key(),
		}).Info("Produto adicionado ao carrinho")

		return &item, nil
	}

	return nil, ErrProductNotFound
}

func validate(input domain.ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrInvalidProduct
	}

	if input.Price.IsNegative() || input.Quantity < 0 {
		return ErrInvalidProduct
	}

	return nil
}
