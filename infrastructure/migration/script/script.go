package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/schollz/progressbar/v3"
	"github.com/vfg2006/storefront-api/infrastructure/database/postgres"
	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront"
	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront/storefrontclient"
	"github.com/vfg2006/storefront-api/infrastructure/repository"
	"github.com/vfg2006/storefront-api/internal/config"
	"github.com/vfg2006/storefront-api/internal/usecases/dashboarding"
	"github.com/vfg2006/storefront-api/pkg/utils"
)

const (
	idLength             = 6
	characters           = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	defaultBackfillMonth = 12
)

type migration struct {
	Name       string
	Statements []string
}

var migrations = []migration{
	{
		Name: "create_cart_storage",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS cart_storage (
				key        VARCHAR(255) PRIMARY KEY,
				value      TEXT NOT NULL,
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			)`,
		},
	},
	{
		Name: "create_monthly_sales_snapshots",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS monthly_sales_snapshots (
				id              SERIAL PRIMARY KEY,
				period          VARCHAR(7) NOT NULL UNIQUE,
				revenue         NUMERIC(14, 2) NOT NULL DEFAULT 0,
				orders_count    INTEGER NOT NULL DEFAULT 0,
				customers_count INTEGER NOT NULL DEFAULT 0,
				created_at      TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at      TIMESTAMP NOT NULL DEFAULT NOW()
			)`,
		},
	},
}

func setupLogger() {
	// Configura o logger para incluir data, hora e arquivo
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Iniciando script de migração...")
}

func generateID() string {
	id, _ := gonanoid.Generate(characters, idLength)
	return id
}

func ensureMigrationsTable(db *sql.DB) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		id         VARCHAR(6) PRIMARY KEY,
		name       VARCHAR(255) NOT NULL UNIQUE,
		applied_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		log.Fatalf("ERRO ao criar tabela schema_migrations: %v", err)
	}
}

func applied(db *sql.DB, name string) bool {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		log.Fatalf("ERRO ao verificar migração %s: %v", name, err)
	}
	return exists
}

func runMigrations(ctx context.Context, conn *postgres.Connection) {
	ensureMigrationsTable(conn.DB)

	for _, m := range migrations {
		if applied(conn.DB, m.Name) {
			log.Printf("Migração %s já aplicada, ignorando", m.Name)
			continue
		}

		startTime := time.Now()
		err := conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
			for _, stmt := range m.Statements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}

			_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (id, name) VALUES ($1, $2)`, generateID(), m.Name)
			return err
		})
		if err != nil {
			log.Fatalf("ERRO ao aplicar migração %s: %v", m.Name, err)
		}

		log.Printf("Migração %s aplicada em %v", m.Name, time.Since(startTime))
	}
}

// backfillSnapshots grava os fechamentos dos últimos meses fechados a partir dos pedidos do storefront
func backfillSnapshots(ctx context.Context, cfg *config.Config, conn *postgres.Connection, months int) {
	integrator := storefront.New(cfg, storefrontclient.NewClient(cfg))
	repo := repository.NewMonthlySalesSnapshotRepository(conn)

	log.Println("Buscando pedidos no storefront...")
	orders, err := integrator.ListOrders(ctx)
	if err != nil {
		log.Printf("ERRO ao buscar pedidos, backfill ignorado: %v", err)
		return
	}

	log.Printf("Gravando fechamentos de %d meses a partir de %d pedidos...", months, len(orders))

	current := utils.MonthStart(time.Now())
	bar := progressbar.Default(int64(months), "fechamentos")

	successCount := 0
	errorCount := 0

	for i := 1; i <= months; i++ {
		snapshot := dashboarding.MonthSnapshot(orders, current.AddDate(0, -i, 0))
		if err := repo.SaveOrUpdate(snapshot); err != nil {
			log.Printf("ERRO ao gravar fechamento %s: %v", snapshot.Period, err)
			errorCount++
		} else {
			successCount++
		}
		_ = bar.Add(1)
	}

	log.Printf("Backfill concluído. Sucesso: %d, Erros: %d", successCount, errorCount)
}

func backfillMonths() int {
	value := os.Getenv("BACKFILL_MONTHS")
	if value == "" {
		return defaultBackfillMonth
	}

	months, err := strconv.Atoi(value)
	if err != nil || months < 0 {
		log.Printf("AVISO: BACKFILL_MONTHS inválido (%q), usando %d", value, defaultBackfillMonth)
		return defaultBackfillMonth
	}
	return months
}

func main() {
	setupLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("ERRO ao carregar configuração: %v", err)
	}

	ctx := context.Background()

	log.Println("Conectando ao banco de dados...")
	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("ERRO ao conectar ao banco: %v", err)
	}
	defer conn.Close()

	runMigrations(ctx, conn)

	if months := backfillMonths(); months > 0 {
		backfillSnapshots(ctx, cfg, conn, months)
	}

	log.Println("Script de migração finalizado")
}
