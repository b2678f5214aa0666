package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/storefront-api/infrastructure/database/postgres"
	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront"
	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront/storefrontclient"
	"github.com/vfg2006/storefront-api/infrastructure/repository"
	"github.com/vfg2006/storefront-api/infrastructure/storage"
	"github.com/vfg2006/storefront-api/internal/api"
	"github.com/vfg2006/storefront-api/internal/config"
	"github.com/vfg2006/storefront-api/internal/scheduler"
	"github.com/vfg2006/storefront-api/internal/usecases/carting"
	"github.com/vfg2006/storefront-api/internal/usecases/cataloging"
	"github.com/vfg2006/storefront-api/internal/usecases/dashboarding"
	"github.com/vfg2006/storefront-api/internal/usecases/paying"
	"github.com/vfg2006/storefront-api/internal/usecases/searching"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pgConn *postgres.Connection
	if cfg.UsesPostgres() {
		pgConn = pgconn(ctx, cfg.Database)
		defer pgConn.Close()
	}

	kv := cartStorage(cfg, pgConn)

	storefrontClient := storefrontclient.NewClient(cfg)
	storefrontIntegrator := storefront.New(cfg, storefrontClient)

	cartService := carting.NewService(kv, cfg)
	catalogService := cataloging.NewService(storefrontIntegrator)
	searchService := searching.NewService(storefrontIntegrator)
	paymentService := paying.NewService(storefrontIntegrator)
	dashboardService := dashboarding.NewService(cfg, storefrontIntegrator)

	var monthlySnapshotSyncService *scheduler.MonthlySnapshotSyncService
	if pgConn != nil {
		snapshotRepo := repository.NewMonthlySalesSnapshotRepository(pgConn)
		dashboardService.WithSnapshots(snapshotRepo)

		monthlySnapshotSyncService = scheduler.NewMonthlySnapshotSyncService(storefrontIntegrator, snapshotRepo, cfg)
		if err := monthlySnapshotSyncService.Start(ctx); err != nil {
			logrus.WithError(err).Error("Erro ao iniciar o agendador de fechamentos mensais")
		} else {
			logrus.Info("Agendador de fechamentos mensais iniciado com sucesso")
		}
	}

	server, err := api.New(cfg, api.Services{
		Carts:               cartService,
		Catalog:             catalogService,
		Search:              searchService,
		Payments:            paymentService,
		Dashboard:           dashboardService,
		MonthlySnapshotSync: monthlySnapshotSyncService,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	server.OnShutdown(func() {
		if closer, ok := kv.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logrus.WithError(err).Warn("Erro ao fechar o storage do carrinho")
			}
		}
	})
	server.OnShutdown(cartService.Close)

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// cartStorage escolhe onde o carrinho é persistido
func cartStorage(cfg *config.Config, pgConn *postgres.Connection) storage.KeyValue {
	if cfg.Cart.Storage != "postgres" {
		logrus.Info("Carrinho persistido em memória")
		return storage.NewMemoryStorage()
	}

	kv, err := storage.NewPostgresStorage(pgConn, cfg.Cart.NotifyChannel)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao iniciar o storage do carrinho no PostgreSQL")
	}

	logrus.WithField("channel", cfg.Cart.NotifyChannel).Info("Carrinho persistido no PostgreSQL")
	return kv
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
