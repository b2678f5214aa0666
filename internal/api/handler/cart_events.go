package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/storefront-api/internal/domain"
	"github.com/vfg2006/storefront-api/internal/usecases/carting"
	"github.com/vfg2006/storefront-api/pkg/apiErrors"
	"github.com/vfg2006/storefront-api/pkg/log"
)

const (
	cartEventName  = "cart"
	heartbeatEvent = "ping"
)

var heartbeatInterval = 25 * time.Second

// CartEvents abre um stream SSE com a contagem do badge. A conexão funciona como uma aba
// própria: abre uma sessão de carrinho e recebe as alterações feitas pelas demais.
// Avisos em sequência são agrupados e o stream envia só a contagem mais recente.
func CartEvents(service *carting.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := log.ForContext(ctx)

		flusher, ok := w.(http.Flusher)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Streaming não suportado", nil)
			return
		}

		cartID := httprouter.ParamsFromContext(ctx).ByName("cartID")

		store, err := service.NewSession(cartID)
		if err != nil {
			writeServiceError(w, err, apiErrors.ErrInternalServer)
			return
		}
		defer store.Close()

		changed := make(chan struct{}, 1)

		badge := carting.NewBadge(store)
		badge.OnChange(func(int) {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
		badge.Mount(ctx)
		defer badge.Unmount()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		logger.WithFields(log.Fields{
			"cart_id":      cartID,
			"cart_session": store.SessionID(),
		}).Info("cart-events: stream aberto")

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.WithField("cart_id", cartID).Info("cart-events: stream encerrado pelo cliente")
				return

			case <-changed:
				err := sse.Encode(w, sse.Event{
					Event: cartEventName,
					Data:  domain.BadgeResponse{Count: badge.Count()},
				})
				if err != nil {
					logger.WithError(err).WithField("cart_id", cartID).Warn("cart-events: erro ao escrever evento")
					return
				}
				flusher.Flush()

			case <-heartbeat.C:
				if err := sse.Encode(w, sse.Event{Event: heartbeatEvent, Data: "{}"}); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	})
}
