package handler

import (
	"net/http"

	"github.com/vfg2006/storefront-api/internal/usecases/searching"
	"github.com/vfg2006/storefront-api/pkg/apiErrors"
	"github.com/vfg2006/storefront-api/pkg/log"
)

// SessionHeader identifica a sessão de busca; respostas atrasadas de uma sessão não
// sobrescrevem a busca mais recente dela
const SessionHeader = "X-Session-ID"

func SearchProducts(service *searching.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(SessionHeader)
		query := r.URL.Query().Get("q")

		response, err := service.Search(r.Context(), sessionID, query)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).WithField("query", query).Error("search: erro na busca")
			writeServiceError(w, err, apiErrors.ErrExternalService)
			return
		}

		writeJSON(w, r, http.StatusOK, response)
	})
}
