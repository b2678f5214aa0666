package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront"
	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront/storefrontclient"
	"github.com/vfg2006/storefront-api/internal/usecases/carting"
	"github.com/vfg2006/storefront-api/pkg/apiErrors"
	"github.com/vfg2006/storefront-api/pkg/log"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("erro ao codificar resposta")
	}
}

// writeServiceError traduz erros conhecidos dos serviços para o código da API;
// o restante recebe fallbackCode
func writeServiceError(w http.ResponseWriter, err error, fallbackCode string) {
	var cartErr *carting.CartError
	var statusErr *storefrontclient.StatusError

	switch {
	case errors.As(err, &cartErr):
		apiErrors.WriteError(w, cartErr.Code, cartErr.Error(), nil)
	case errors.Is(err, storefront.ErrNotFound):
		apiErrors.WriteError(w, apiErrors.ErrNotFound, err.Error(), nil)
	case errors.As(err, &statusErr):
		apiErrors.WriteError(w, apiErrors.ErrExternalService, err.Error(), map[string]int{"upstream_status": statusErr.StatusCode})
	default:
		apiErrors.WriteError(w, fallbackCode, err.Error(), nil)
	}
}

func intParam(r *http.Request, name string) (int, error) {
	return strconv.Atoi(httprouter.ParamsFromContext(r.Context()).ByName(name))
}
