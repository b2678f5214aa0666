package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/vfg2006/storefront-api/pkg/apiErrors"
	"github.com/vfg2006/storefront-api/pkg/log"
)

// CorrelationHeader devolve ao cliente o ID usado nos logs da requisição
const CorrelationHeader = "X-Correlation-ID"

// Streams SSE ficam abertos por minutos e não contam como requisição lenta
const slowRequestThreshold = 500 * time.Millisecond

// LoggingMiddleware registra início e fim de cada requisição com o mesmo correlation_id.
// Em desenvolvimento o log fica enxuto; em produção leva os detalhes da requisição.
func LoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, correlationID := log.WithCorrelationID(r.Context())
			r = r.WithContext(ctx)
			w.Header().Set(CorrelationHeader, correlationID)

			rec := newResponseRecorder(w)
			started := time.Now()

			log.ForContext(ctx).WithFields(requestFields(r)).Info("→ requisição iniciada")

			next.ServeHTTP(rec, r)

			elapsed := time.Since(started)
			logger := log.ForContext(ctx).WithFields(log.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rec.status,
				"duration_ms": elapsed.Milliseconds(),
				"bytes":       rec.written,
				"streaming":   rec.streaming,
			})

			message := fmt.Sprintf("%s %s em %s", statusSymbol(rec.status), http.StatusText(rec.status), formatDuration(elapsed))
			switch {
			case rec.status >= http.StatusInternalServerError:
				logger.Error(message)
			case rec.status >= http.StatusBadRequest:
				logger.Warn(message)
			default:
				logger.Info(message)
			}

			if elapsed > slowRequestThreshold && !rec.streaming {
				logger.Warnf("Requisição lenta: %s %s", r.Method, r.URL.Path)
			}
		})
	}
}

func requestFields(r *http.Request) log.Fields {
	fields := log.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}

	if !log.IsDevelopment() {
		fields["remote_addr"] = r.RemoteAddr
		fields["query"] = r.URL.RawQuery
		fields["user_agent"] = r.UserAgent()
		fields["content_length"] = r.ContentLength
	}

	return fields
}

func statusSymbol(status int) string {
	if status >= http.StatusBadRequest {
		return "✗"
	}
	return "✓"
}

// formatDuration formata a duração de forma humana
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%d µs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%d ms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2f s", d.Seconds())
	}
}

// responseRecorder guarda status e bytes escritos sem esconder o Flush do writer original
type responseRecorder struct {
	http.ResponseWriter
	status    int
	written   int
	streaming bool
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rec *responseRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *responseRecorder) Write(b []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(b)
	rec.written += n
	return n, err
}

// Flush marca a resposta como stream; o evento SSE do carrinho depende dele
func (rec *responseRecorder) Flush() {
	rec.streaming = true
	if flusher, ok := rec.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// LogPanicMiddleware recupera panics, registra a pilha e responde SRV_001
func LogPanicMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}

				if err == http.ErrAbortHandler {
					panic(err)
				}

				log.ForContext(r.Context()).WithFields(log.Fields{
					"error":       err,
					"method":      r.Method,
					"path":        r.URL.Path,
					"stack_trace": string(debug.Stack()),
				}).Error("❌ PANIC na aplicação")

				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
