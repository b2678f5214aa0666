package dashboarding

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/storefront-api/internal/domain"
	"github.com/vfg2006/storefront-api/pkg/utils"
)

const (
	DefaultChartMonths      = 12
	DefaultRecentSalesLimit = 5
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// OrderRevenue soma os pagamentos do pedido; sem pagamentos conta zero
func OrderRevenue(order domain.Order) decimal.Decimal {
	total := decimal.Zero
	for _, payment := range order.Payment {
		total = total.Add(payment.Amount)
	}
	return total
}

func TotalRevenue(orders []domain.Order) decimal.Decimal {
	total := decimal.Zero
	for _, order := range orders {
		total = total.Add(OrderRevenue(order))
	}
	return total
}

// ChartWindow devolve o intervalo [from, to) coberto pelo gráfico: os últimos months meses
// de calendário, incluindo o mês de now
func ChartWindow(now time.Time, months int) (time.Time, time.Time) {
	if months <= 0 {
		months = DefaultChartMonths
	}

	current := utils.MonthStart(now)
	return current.AddDate(0, -(months - 1), 0), current.AddDate(0, 1, 0)
}

// ChartSeries agrupa a receita por mês de calendário, do mais antigo para o mais recente.
// Meses sem pedidos aparecem com total zero.
func ChartSeries(orders []domain.Order, now time.Time, months int) []domain.ChartPoint {
	if months <= 0 {
		months = DefaultChartMonths
	}

	from, _ := ChartWindow(now, months)

	series := make([]domain.ChartPoint, months)
	index := make(map[string]int, months)
	for i := range series {
		month := from.AddDate(0, i, 0)
		key := month.Format("2006-01")

		series[i] = domain.ChartPoint{
			Name:  month.Format("Jan"),
			Month: key,
			Total: decimal.Zero,
		}
		index[key] = i
	}

	for _, order := range orders {
		key := order.CreatedAt.In(now.Location()).Format("2006-01")
		if i, ok := index[key]; ok {
			series[i].Total = series[i].Total.Add(OrderRevenue(order))
		}
	}

	return series
}

// RecentSales devolve as vendas mais recentes primeiro, limitadas a limit
func RecentSales(orders []domain.Order, limit int) []domain.RecentSale {
	if limit <= 0 {
		limit = DefaultRecentSalesLimit
	}

	sorted := make([]domain.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	sales := make([]domain.RecentSale, 0, len(sorted))
	for _, order := range sorted {
		sales = append(sales, domain.RecentSale{
			Name:   order.User.FullName,
			Email:  order.User.Email,
			Amount: OrderRevenue(order),
		})
	}

	return sales
}

// ActiveCustomers conta os userId distintos
func ActiveCustomers(orders []domain.Order) int {
	seen := make(map[int]struct{}, len(orders))
	for _, order := range orders {
		seen[order.UserID] = struct{}{}
	}
	return len(seen)
}

// PercentageChange compara current com previous. previous zero devolve 0 quando
// current também é zero e 100 caso contrário; o arredondamento é meio para cima.
func PercentageChange(current, previous decimal.Decimal) int64 {
	if previous.IsZero() {
		if current.IsZero() {
			return 0
		}
		return 100
	}

	change := current.Sub(previous).Mul(hundred).Div(previous)
	return change.Add(half).Floor().IntPart()
}

// MonthlyComparisons compara o mês de calendário de now com o mês anterior
func MonthlyComparisons(orders []domain.Order, now time.Time) domain.MonthlyComparisons {
	currentStart := utils.MonthStart(now)
	previousStart := currentStart.AddDate(0, -1, 0)
	nextStart := currentStart.AddDate(0, 1, 0)

	var current, previous []domain.Order
	for _, order := range orders {
		createdAt := order.CreatedAt.In(now.Location())
		switch {
		case !createdAt.Before(currentStart) && createdAt.Before(nextStart):
			current = append(current, order)
		case !createdAt.Before(previousStart) && createdAt.Before(currentStart):
			previous = append(previous, order)
		}
	}

	return domain.MonthlyComparisons{
		Revenue: compare(TotalRevenue(current), TotalRevenue(previous)),
		Customers: compare(
			decimal.NewFromInt(int64(ActiveCustomers(current))),
			decimal.NewFromInt(int64(ActiveCustomers(previous))),
		),
		Orders: compare(
			decimal.NewFromInt(int64(len(current))),
			decimal.NewFromInt(int64(len(previous))),
		),
	}
}

// FilterByRange mantém os pedidos com from <= createdAt <= to; limite nil não restringe
func FilterByRange(orders []domain.Order, filters *domain.DashboardFilters) []domain.Order {
	filtered := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if filters.Contains(order.CreatedAt) {
			filtered = append(filtered, order)
		}
	}
	return filtered
}

func compare(current, previous decimal.Decimal) domain.MetricComparison {
	return domain.MetricComparison{
		Current:          current,
		Previous:         previous,
		PercentageChange: PercentageChange(current, previous),
	}
}

// MonthSnapshot resume o mês de calendário que contém month: receita, pedidos e clientes distintos
func MonthSnapshot(orders []domain.Order, month time.Time) *domain.MonthlySalesSnapshot {
	start := utils.MonthStart(month)
	end := start.AddDate(0, 1, 0)

	var inMonth []domain.Order
	for _, order := range orders {
		createdAt := order.CreatedAt.In(month.Location())
		if !createdAt.Before(start) && createdAt.Before(end) {
			inMonth = append(inMonth, order)
		}
	}

	return &domain.MonthlySalesSnapshot{
		Period:         utils.FormatPeriod(start),
		Revenue:        TotalRevenue(inMonth),
		OrdersCount:    len(inMonth),
		CustomersCount: ActiveCustomers(inMonth),
	}
}
