package middleware

import (
	"net/http"
	"strings"

	"github.com/vfg2006/storefront-api/pkg/log"
)

const adminPathPrefix = "/v1/admin"

// AdminGuard marca as rotas administrativas; a autenticação ainda não existe,
// então a requisição sempre segue adiante
func AdminGuard() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, adminPathPrefix) {
				log.ForContext(r.Context()).WithField("path", r.URL.Path).Debug("admin-guard: acesso liberado")
			}

			next.ServeHTTP(w, r)
		})
	}
}
