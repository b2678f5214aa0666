package handler

import (
	"errors"
	"net/http"

	"github.com/vfg2006/storefront-api/internal/domain"
	"github.com/vfg2006/storefront-api/internal/usecases/paying"
	"github.com/vfg2006/storefront-api/pkg/apiErrors"
	"github.com/vfg2006/storefront-api/pkg/log"
)

func CreatePaymentURL(service *paying.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.PaymentURLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}

		response, err := service.CreatePaymentURL(r.Context(), req)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("payments: erro ao gerar URL de pagamento")

			switch {
			case errors.Is(err, paying.ErrInvalidAmount):
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			case errors.Is(err, paying.ErrEmptyPaymentURL):
				apiErrors.WriteError(w, apiErrors.ErrExternalService, err.Error(), nil)
			default:
				writeServiceError(w, err, apiErrors.ErrExternalService)
			}
			return
		}

		writeJSON(w, r, http.StatusOK, response)
	})
}
