package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/storefront-api/internal/api/handler/router"
	"github.com/vfg2006/storefront-api/internal/usecases/carting"
	"github.com/vfg2006/storefront-api/internal/usecases/cataloging"
	"github.com/vfg2006/storefront-api/internal/usecases/dashboarding"
	"github.com/vfg2006/storefront-api/internal/usecases/paying"
	"github.com/vfg2006/storefront-api/internal/usecases/searching"
	"github.com/vfg2006/storefront-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// admin agrupa as rotas administrativas sob /v1/admin com o guard aplicado
func admin(routes ...router.Route) []router.Route {
	return router.Group("/v1/admin", middleware.AdminGuard())(routes...)
}

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Carts(service *carting.Service) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/carts/:cartID",
			Method:  http.MethodGet,
			Handler: GetCart(service),
		},
		{
			Path:    "/v1/carts/:cartID",
			Method:  http.MethodDelete,
			Handler: ClearCart(service),
		},
		{
			Path:    "/v1/carts/:cartID/items",
			Method:  http.MethodPost,
			Handler: AddCartItem(service),
		},
		{
			Path:    "/v1/carts/:cartID/items/:id",
			Method:  http.MethodPatch,
			Handler: UpdateCartItemQuantity(service),
		},
		{
			Path:    "/v1/carts/:cartID/items/:id",
			Method:  http.MethodDelete,
			Handler: RemoveCartItem(service),
		},
		{
			Path:    "/v1/carts/:cartID/badge",
			Method:  http.MethodGet,
			Handler: GetCartBadge(service),
		},
		{
			Path:    "/v1/carts/:cartID/events",
			Method:  http.MethodGet,
			Handler: CartEvents(service),
		},
	}
}

func Catalog(service *cataloging.Service, carts *carting.Service) []router.Route {
	routes := []router.Route{
		{
			Path:    "/v1/products",
			Method:  http.MethodGet,
			Handler: ListProducts(service),
		},
		{
			Path:    "/v1/categories",
			Method:  http.MethodGet,
			Handler: ListCategories(service),
		},
		{
			Path:    "/v1/categories/:name",
			Method:  http.MethodGet,
			Handler: GetCategory(service),
		},
		{
			Path:    "/v1/carts/:cartID/products/:id",
			Method:  http.MethodPost,
			Handler: AddProductToCart(service, carts),
		},
	}

	return append(routes, admin(
		router.Route{
			Path:    "/products",
			Method:  http.MethodPost,
			Handler: CreateProduct(service),
		},
		router.Route{
			Path:    "/products/:id",
			Method:  http.MethodPut,
			Handler: UpdateProduct(service),
		},
		router.Route{
			Path:    "/products/:id",
			Method:  http.MethodDelete,
			Handler: DeleteProduct(service),
		},
	)...)
}

func Search(service *searching.Service) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/search",
			Method:  http.MethodGet,
			Handler: SearchProducts(service),
		},
	}
}

func Payments(service *paying.Service) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/payments/url",
			Method:  http.MethodPost,
			Handler: CreatePaymentURL(service),
		},
	}
}

func Dashboard(service dashboarding.Dashboarder) []router.Route {
	return admin(
		router.Route{
			Path:    "/dashboard",
			Method:  http.MethodGet,
			Handler: GetDashboard(service),
		},
		router.Route{
			Path:    "/dashboard/periods",
			Method:  http.MethodGet,
			Handler: GetSnapshotPeriods(service),
		},
		router.Route{
			Path:    "/dashboard/snapshots/:period",
			Method:  http.MethodGet,
			Handler: GetSnapshot(service),
		},
	)
}

func CronJobs(services CronJobServices) []router.Route {
	return admin(
		router.Route{
			Path:    "/cron/run/:type",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		router.Route{
			Path:    "/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	)
}
