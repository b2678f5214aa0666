package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/storefront-api/internal/domain"
	"github.com/vfg2006/storefront-api/internal/usecases/carting"
	"github.com/vfg2006/storefront-api/internal/usecases/cataloging"
	"github.com/vfg2006/storefront-api/pkg/apiErrors"
	"github.com/vfg2006/storefront-api/pkg/log"
)

// ListProducts devolve o catálogo filtrado por ?search= (nome, categoria ou estoque)
func ListProducts(service *cataloging.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		search := r.URL.Query().Get("search")

		products, err := service.ListProducts(r.Context(), search)
		if err != nil {
			logger.WithError(err).Error("products: erro ao buscar produtos")
			writeServiceError(w, err, apiErrors.ErrExternalService)
			return
		}

		logger.WithFields(log.Fields{
			"search":   search,
			"products": len(products),
		}).Debug("products: catálogo recuperado")

		writeJSON(w, r, http.StatusOK, products)
	})
}

func ListCategories(service *cataloging.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		categories, err := service.ListCategories(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("categories: erro ao buscar categorias")
			writeServiceError(w, err, apiErrors.ErrExternalService)
			return
		}

		writeJSON(w, r, http.StatusOK, categories)
	})
}

func GetCategory(service *cataloging.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := httprouter.ParamsFromContext(r.Context()).ByName("name")

		category, err := service.GetCategory(r.Context(), name)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).WithField("category", name).Error("categories: erro ao buscar categoria")
			writeCatalogError(w, err)
			return
		}

		writeJSON(w, r, http.StatusOK, category)
	})
}

func CreateProduct(service *cataloging.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var input domain.ProductInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}

		product, err := service.CreateProduct(r.Context(), input)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("admin-products: erro ao criar produto")
			writeCatalogError(w, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, product)
	})
}

func UpdateProduct(service *cataloging.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := intParam(r, "id")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do produto inválido", nil)
			return
		}

		var input domain.ProductInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}

		product, err := service.UpdateProduct(r.Context(), id, input)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).WithField("product_id", id).Error("admin-products: erro ao atualizar produto")
			writeCatalogError(w, err)
			return
		}

		writeJSON(w, r, http.StatusOK, product)
	})
}

func DeleteProduct(service *cataloging.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := intParam(r, "id")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do produto inválido", nil)
			return
		}

		if err := service.DeleteProduct(r.Context(), id); err != nil {
			log.ForContext(r.Context()).WithError(err).WithField("product_id", id).Error("admin-products: erro ao remover produto")
			writeCatalogError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

// AddProductToCart adiciona uma unidade do produto ao carrinho, limitada à quantidade em estoque
func AddProductToCart(service *cataloging.Service, carts *carting.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		productID, err := intParam(r, "id")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do produto inválido", nil)
			return
		}

		store, cartID, release, ok := cartStore(w, r, carts)
		if !ok {
			return
		}
		defer release()

		if _, err := service.AddProductToCart(r.Context(), store, productID); err != nil {
			log.ForContext(r.Context()).WithError(err).WithFields(log.Fields{
				"cart_id":    cartID,
				"product_id": productID,
			}).Warn("cart: produto não adicionado")
			writeCatalogError(w, err)
			return
		}

		writeCart(w, r, http.StatusOK, cartID, store)
	})
}

func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cataloging.ErrInvalidProduct), errors.Is(err, cataloging.ErrOutOfStock):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
	case errors.Is(err, cataloging.ErrProductNotFound):
		apiErrors.WriteError(w, apiErrors.ErrNotFound, err.Error(), nil)
	default:
		writeServiceError(w, err, apiErrors.ErrExternalService)
	}
}
