package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/storefront-api/internal/api/handler"
	"github.com/vfg2006/storefront-api/internal/api/handler/router"
	"github.com/vfg2006/storefront-api/internal/config"
	"github.com/vfg2006/storefront-api/internal/scheduler"
	"github.com/vfg2006/storefront-api/internal/usecases/carting"
	"github.com/vfg2006/storefront-api/internal/usecases/cataloging"
	"github.com/vfg2006/storefront-api/internal/usecases/dashboarding"
	"github.com/vfg2006/storefront-api/internal/usecases/paying"
	"github.com/vfg2006/storefront-api/internal/usecases/searching"
	"github.com/vfg2006/storefront-api/pkg/middleware"
)

// Services agrupa os casos de uso expostos pela API
type Services struct {
	Carts               *carting.Service
	Catalog             *cataloging.Service
	Search              *searching.Service
	Payments            *paying.Service
	Dashboard           dashboarding.Dashboarder
	MonthlySnapshotSync *scheduler.MonthlySnapshotSyncService
}

type Server struct {
	httpServer *http.Server
	onShutdown []func()

	// cancela o contexto base das requisições; encerra os streams SSE no desligamento
	cancelRequests context.CancelFunc
}

func New(config *config.Config, services Services) (*Server, error) {
	cronServices := handler.CronJobServices{
		MonthlySnapshotSyncService: services.MonthlySnapshotSync,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Carts(services.Carts)...),
		router.WithRoutes(handler.Catalog(services.Catalog, services.Carts)...),
		router.WithRoutes(handler.Search(services.Search)...),
		router.WithRoutes(handler.Payments(services.Payments)...),
		router.WithRoutes(handler.Dashboard(services.Dashboard)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins),
	}

	handler := alice.New(middlewares...).Then(rt)

	baseCtx, cancel := context.WithCancel(context.Background())

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
			BaseContext: func(net.Listener) context.Context {
				return baseCtx
			},
		},
		cancelRequests: cancel,
	}

	return srv, nil
}

// Handler expõe a cadeia completa de middlewares e rotas
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// OnShutdown registra uma limpeza executada depois que o servidor HTTP para
func (s *Server) OnShutdown(fn func()) {
	s.onShutdown = append(s.onShutdown, fn)
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.cancelRequests()

	err := s.httpServer.Shutdown(ctx)

	logrus.Info("Executando operações de limpeza antes do desligamento")
	for i := len(s.onShutdown) - 1; i >= 0; i-- {
		s.onShutdown[i]()
	}

	if err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
