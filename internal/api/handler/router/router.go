package router

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/storefront-api/pkg/apiErrors"
)

var (
	WithRoutes = func(routes ...Route) ConfigRouter {
		return func(router *Router) {
			router.AddRoutes(routes...)
		}
	}
)

type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []func(http.Handler) http.Handler // Lista de middlewares específicos para esta rota
}

type Router struct {
	router *httprouter.Router
}

type ConfigRouter func(router *Router)

// Group prefixa o path das rotas e coloca os middlewares do grupo antes dos de cada rota
func Group(prefix string, middlewares ...func(http.Handler) http.Handler) func(routes ...Route) []Route {
	prefix = strings.TrimSuffix(prefix, "/")

	return func(routes ...Route) []Route {
		grouped := make([]Route, 0, len(routes))
		for _, route := range routes {
			chain := make([]func(http.Handler) http.Handler, 0, len(middlewares)+len(route.Middlewares))
			chain = append(chain, middlewares...)
			chain = append(chain, route.Middlewares...)

			route.Path = prefix + route.Path
			route.Middlewares = chain
			grouped = append(grouped, route)
		}
		return grouped
	}
}

func New(configs ...ConfigRouter) Router {
	router := &Router{
		router: httprouter.New(),
	}

	router.router.NotFound = http.HandlerFunc(notFound)
	router.router.MethodNotAllowed = http.HandlerFunc(methodNotAllowed)

	for _, config := range configs {
		config(router)
	}

	return *router
}

func (r Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// AddRoutes adiciona rotas ao router com seus middlewares específicos
func (r Router) AddRoutes(routes ...Route) {
	for _, route := range routes {
		var handler http.Handler = route.Handler

		// Aplicar middlewares específicos da rota, do último para o primeiro
		for i := len(route.Middlewares) - 1; i >= 0; i-- {
			handler = route.Middlewares[i](handler)
		}

		r.router.Handler(route.Method, route.Path, handler)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	apiErrors.WriteError(w, apiErrors.ErrNotFound, "Rota não encontrada", map[string]any{
		"path": r.URL.Path,
	})
}

// methodNotAllowed devolve os métodos aceitos no path; o httprouter já preencheu o header Allow
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	var allowed []string
	for _, method := range strings.Split(w.Header().Get("Allow"), ",") {
		if method = strings.TrimSpace(method); method != "" {
			allowed = append(allowed, method)
		}
	}

	apiErrors.WriteError(w, apiErrors.ErrMethodNotAllowed, "Método não permitido", map[string]any{
		"method":  r.Method,
		"allowed": allowed,
	})
}
