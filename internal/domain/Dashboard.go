package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardFilters limita as datas consideradas; limite nil significa sem limite naquele lado
type DashboardFilters struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

// Contains verifica se a data está dentro do intervalo (inclusivo)
func (f *DashboardFilters) Contains(t time.Time) bool {
	if f == nil {
		return true
	}

	if f.From != nil && t.Before(*f.From) {
		return false
	}

	if f.To != nil && t.After(*f.To) {
		return false
	}

	return true
}

type ChartPoint struct {
	Name  string          `json:"name"`  // Rótulo curto do mês (Jan, Feb...)
	Month string          `json:"month"` // Formato yyyy-mm
	Total decimal.Decimal `json:"total"`
}

type RecentSale struct {
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Amount decimal.Decimal `json:"amount"`
}

type MetricComparison struct {
	Current          decimal.Decimal `json:"current"`
	Previous         decimal.Decimal `json:"previous"`
	PercentageChange int64           `json:"percentage_change"`
}

type MonthlyComparisons struct {
	Revenue   MetricComparison `json:"revenue"`
	Customers MetricComparison `json:"customers"`
	Orders    MetricComparison `json:"orders"`
}

type DashboardSummary struct {
	TotalRevenue   decimal.Decimal    `json:"total_revenue"`
	TotalOrders    int                `json:"total_orders"`
	TotalCustomers int                `json:"total_customers"`
	ChartSeries    []ChartPoint       `json:"chart_series"`
	RecentSales    []RecentSale       `json:"recent_sales"`
	Comparisons    MonthlyComparisons `json:"comparisons"`
	Filters        *DashboardFilters  `json:"filters"`
	Degraded       bool               `json:"degraded"`
	Errors         []string           `json:"errors,omitempty"`
}
