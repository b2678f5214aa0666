package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/storefront-api/internal/domain"
	"github.com/vfg2006/storefront-api/internal/usecases/carting"
	"github.com/vfg2006/storefront-api/pkg/apiErrors"
	"github.com/vfg2006/storefront-api/pkg/log"
)

// cartStore resolve a sessão compartilhada do carrinho da URL; em caso de erro já responde.
// Quem chama libera a sessão com release ao terminar a requisição.
func cartStore(w http.ResponseWriter, r *http.Request, service *carting.Service) (*carting.Store, string, func(), bool) {
	cartID := httprouter.ParamsFromContext(r.Context()).ByName("cartID")

	store, release, err := service.Acquire(cartID)
	if err != nil {
		writeServiceError(w, err, apiErrors.ErrInternalServer)
		return nil, cartID, nil, false
	}

	return store, cartID, release, true
}

func writeCart(w http.ResponseWriter, r *http.Request, status int, cartID string, store *carting.Store) {
	writeJSON(w, r, status, domain.NewCartResponse(cartID, store.Get(r.Context())))
}

func GetCart(service *carting.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store, cartID, release, ok := cartStore(w, r, service)
		if !ok {
			return
		}
		defer release()

		writeCart(w, r, http.StatusOK, cartID, store)
	})
}

func AddCartItem(service *carting.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var item domain.CartItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}

		store, cartID, release, ok := cartStore(w, r, service)
		if !ok {
			return
		}
		defer release()

		if err := store.AddItem(r.Context(), item); err != nil {
			logger.WithError(err).WithField("cart_id", cartID).Error("cart: erro ao adicionar item")
			writeServiceError(w, err, apiErrors.ErrCartStorage)
			return
		}

		logger.WithFields(log.Fields{
			"cart_id":  cartID,
			"item_id":  item.ID,
			"quantity": item.Quantity,
		}).Info("cart: item adicionado")

		writeCart(w, r, http.StatusOK, cartID, store)
	})
}

func UpdateCartItemQuantity(service *carting.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := intParam(r, "id")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do item inválido", nil)
			return
		}

		var req domain.UpdateQuantityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}

		store, cartID, release, ok := cartStore(w, r, service)
		if !ok {
			return
		}
		defer release()

		if err := store.UpdateQuantity(r.Context(), id, req.Delta); err != nil {
			log.ForContext(r.Context()).WithError(err).WithField("cart_id", cartID).Error("cart: erro ao alterar quantidade")
			writeServiceError(w, err, apiErrors.ErrCartStorage)
			return
		}

		writeCart(w, r, http.StatusOK, cartID, store)
	})
}

func RemoveCartItem(service *carting.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := intParam(r, "id")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do item inválido", nil)
			return
		}

		store, cartID, release, ok := cartStore(w, r, service)
		if !ok {
			return
		}
		defer release()

		if err := store.RemoveItem(r.Context(), id); err != nil {
			log.ForContext(r.Context()).WithError(err).WithField("cart_id", cartID).Error("cart: erro ao remover item")
			writeServiceError(w, err, apiErrors.ErrCartStorage)
			return
		}

		writeCart(w, r, http.StatusOK, cartID, store)
	})
}

func ClearCart(service *carting.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store, cartID, release, ok := cartStore(w, r, service)
		if !ok {
			return
		}
		defer release()

		if err := store.Clear(r.Context()); err != nil {
			log.ForContext(r.Context()).WithError(err).WithField("cart_id", cartID).Error("cart: erro ao limpar carrinho")
			writeServiceError(w, err, apiErrors.ErrCartStorage)
			return
		}

		log.ForContext(r.Context()).WithField("cart_id", cartID).Info("cart: carrinho limpo")

		writeCart(w, r, http.StatusOK, cartID, store)
	})
}

func GetCartBadge(service *carting.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store, _, release, ok := cartStore(w, r, service)
		if !ok {
			return
		}
		defer release()

		writeJSON(w, r, http.StatusOK, domain.BadgeResponse{Count: len(store.Get(r.Context()))})
	})
}
