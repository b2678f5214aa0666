// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/storefront-api/infrastructure/database/postgres"
	"github.com/vfg2006/storefront-api/internal/domain"
)

const (
	monthlySalesSnapshotsTable = "monthly_sales_snapshots mss"
)

type MonthlySalesSnapshotRepository interface {
	GetByPeriod(period string) (*domain.MonthlySalesSnapshot, error)
	SaveOrUpdate(snapshot *domain.MonthlySalesSnapshot) error
	GetAllPeriods() ([]string, error)
}

type monthlySalesSnapshotRepository struct {
	conn *postgres.Connection
}

func NewMonthlySalesSnapshotRepository(conn *postgres.Connection) MonthlySalesSnapshotRepository {
	return &monthlySalesSnapshotRepository{
		conn: conn,
	}
}

func (r *monthlySalesSnapshotRepository) GetByPeriod(period string) (*domain.MonthlySalesSnapshot, error) {
	query, args, err := squirrel.
		Select("mss.id, mss.period, mss.revenue, mss.orders_count, mss.customers_count, mss.created_at, mss.updated_at").
		From(monthlySalesSnapshotsTable).
		Where(squirrel.Eq{"mss.period": period}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	snapshot := &domain.MonthlySalesSnapshot{}
	var revenue string

	err = r.conn.QueryRow(query, args...).Scan(
		&snapshot.ID,
		&snapshot.Period,
		&revenue,
		&snapshot.OrdersCount,
		&snapshot.CustomersCount,
		&snapshot.CreatedAt,
		&snapshot.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear snapshot: %w", err)
	}

	snapshot.Revenue, err = decimal.NewFromString(revenue)
	if err != nil {
		return nil, fmt.Errorf("erro ao converter receita %q: %w", revenue, err)
	}

	return snapshot, nil
}

func (r *monthlySalesSnapshotRepository) SaveOrUpdate(snapshot *domain.MonthlySalesSnapshot) error {
	query := squirrel.StatementBuilder.
		Insert("monthly_sales_snapshots").
		Columns("period", "revenue", "orders_count", "customers_count").
		Values(
			snapshot.Period,
			snapshot.Revenue.String(),
			snapshot.OrdersCount,
			snapshot.CustomersCount,
		).
		Suffix(`
			ON CONFLICT (period) DO UPDATE SET
				revenue = EXCLUDED.revenue,
				orders_count = EXCLUDED.orders_count,
				customers_count = EXCLUDED.customers_count,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *monthlySalesSnapshotRepository) GetAllPeriods() ([]string, error) {
	query, args, err := squirrel.
		Select("mss.period").
		From(monthlySalesSnapshotsTable).
		OrderBy("mss.period ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	periods := make([]string, 0)
	for rows.Next() {
		var period string
		if err := rows.Scan(&period); err != nil {
			return nil, fmt.Errorf("erro ao escanear período: %w", err)
		}
		periods = append(periods, period)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return periods, nil
}
