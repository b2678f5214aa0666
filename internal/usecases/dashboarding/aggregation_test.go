package dashboarding

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/storefront-api/internal/domain"
)

func order(id, userID int, createdAt time.Time, amounts ...int64) domain.Order {
	payments := make([]domain.OrderPayment, 0, len(amounts))
	for _, amount := range amounts {
		payments = append(payments, domain.OrderPayment{Amount: decimal.NewFromInt(amount)})
	}

	return domain.Order{
		ID:        id,
		UserID:    userID,
		Status:    domain.OrderStatusDelivered,
		CreatedAt: createdAt,
		User: domain.OrderUser{
			FullName: "Cliente",
			Email:    "cliente@loja.com",
		},
		Payment: payments,
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func TestPercentageChange(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		expected int64
	}{
		{name: "Ambos zero", current: 0, previous: 0, expected: 0},
		{name: "Crescimento de 50%", current: 150, previous: 100, expected: 50},
		{name: "Queda de 50%", current: 50, previous: 100, expected: -50},
		{name: "Anterior zero", current: 100, previous: 0, expected: 100},
		{name: "Atual zero", current: 0, previous: 100, expected: -100},
		{name: "Arredonda para cima", current: 2, previous: 3, expected: -33},
		{name: "Arredonda negativo", current: 1, previous: 3, expected: -67},
		{name: "Meio positivo arredonda para cima", current: 1005, previous: 1000, expected: 1},
		{name: "Meio negativo arredonda para cima", current: 995, previous: 1000, expected: 0},
		{name: "Mais que dobro", current: 350, previous: 100, expected: 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PercentageChange(decimal.NewFromFloat(tt.current), decimal.NewFromFloat(tt.previous))
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestTotalRevenue(t *testing.T) {
	orders := []domain.Order{
		order(1, 1, date(2024, 1, 15), 100),
		order(2, 2, date(2024, 2, 10), 150, 50),
		order(3, 3, date(2024, 2, 11)),
	}

	assert.Equal(t, "300", TotalRevenue(orders).String())
	assert.True(t, TotalRevenue(nil).IsZero())
	assert.True(t, OrderRevenue(orders[2]).IsZero())
}

func TestChartSeries_Scenario(t *testing.T) {
	orders := []domain.Order{
		order(1, 1, date(2024, 1, 15), 100),
		order(2, 2, date(2024, 2, 10), 200),
	}
	now := date(2024, 2, 20)

	series := ChartSeries(orders, now, 12)
	require.Len(t, series, 12)

	assert.Equal(t, "Mar", series[0].Name)
	assert.Equal(t, "2023-03", series[0].Month)

	jan := series[10]
	feb := series[11]
	assert.Equal(t, "Jan", jan.Name)
	assert.Equal(t, "2024-01", jan.Month)
	assert.Equal(t, "100", jan.Total.String())
	assert.Equal(t, "Feb", feb.Name)
	assert.Equal(t, "200", feb.Total.String())

	for _, point := range series[:10] {
		assert.True(t, point.Total.IsZero(), point.Month)
	}

	assert.Equal(t, "300", TotalRevenue(orders).String())
}

func TestChartSeries_SumMatchesWindowRevenue(t *testing.T) {
	now := date(2024, 6, 30)

	orders := []domain.Order{
		order(1, 1, date(2022, 12, 31), 999), // fora da janela
		order(2, 1, date(2023, 7, 1), 10),
		order(3, 2, date(2023, 12, 24), 20, 5),
		order(4, 3, date(2024, 3, 3), 30),
		order(5, 3, date(2024, 6, 30), 40),
		order(6, 4, date(2024, 7, 1), 500), // mês seguinte
		order(7, 5, date(2023, 6, 30), 70), // um dia antes da janela
	}

	for _, months := range []int{1, 3, 6, 12, 24} {
		series := ChartSeries(orders, now, months)
		require.Len(t, series, months)

		sum := decimal.Zero
		for _, point := range series {
			sum = sum.Add(point.Total)
		}

		from, to := ChartWindow(now, months)
		end := to.Add(-time.Nanosecond)
		inWindow := FilterByRange(orders, &domain.DashboardFilters{From: &from, To: &end})

		assert.True(t, TotalRevenue(inWindow).Equal(sum), "janela de %d meses: %s != %s", months, TotalRevenue(inWindow), sum)
	}
}

func TestChartSeries_ChronologicalOrder(t *testing.T) {
	series := ChartSeries(nil, date(2024, 1, 5), 0)
	require.Len(t, series, DefaultChartMonths)

	for i := 1; i < len(series); i++ {
		assert.Less(t, series[i-1].Month, series[i].Month)
	}
	assert.Equal(t, "2023-02", series[0].Month)
	assert.Equal(t, "2024-01", series[len(series)-1].Month)
}

func TestRecentSales(t *testing.T) {
	orders := make([]domain.Order, 0, 7)
	for day := 1; day <= 7; day++ {
		o := order(day, day, date(2024, 3, day), int64(day*10))
		o.User.FullName = "Cliente " + string(rune('A'+day-1))
		orders = append(orders, o)
	}

	sales := RecentSales(orders, 5)
	require.Len(t, sales, 5)
	assert.Equal(t, "Cliente G", sales[0].Name)
	assert.Equal(t, "70", sales[0].Amount.String())
	assert.Equal(t, "Cliente C", sales[4].Name)

	// A coleção original não é reordenada
	assert.Equal(t, 1, orders[0].ID)

	assert.Len(t, RecentSales(orders[:2], 0), 2)
	assert.Empty(t, RecentSales(nil, 5))
}

func TestActiveCustomers(t *testing.T) {
	orders := []domain.Order{
		order(1, 1, date(2024, 1, 1), 10),
		order(2, 1, date(2024, 1, 2), 10),
		order(3, 2, date(2024, 1, 3), 10),
	}

	assert.Equal(t, 2, ActiveCustomers(orders))
	assert.Equal(t, 0, ActiveCustomers(nil))
}

func TestMonthlyComparisons(t *testing.T) {
	now := date(2024, 3, 15)

	orders := []domain.Order{
		order(1, 1, date(2024, 3, 1), 150),
		order(2, 2, date(2024, 3, 10), 150),
		order(3, 2, date(2024, 3, 11), 0),
		order(4, 1, date(2024, 2, 5), 100),
		order(5, 1, date(2024, 2, 28), 100),
		order(6, 9, date(2024, 1, 31), 1000), // fora das duas janelas
	}

	result := MonthlyComparisons(orders, now)

	assert.Equal(t, "300", result.Revenue.Current.String())
	assert.Equal(t, "200", result.Revenue.Previous.String())
	assert.Equal(t, int64(50), result.Revenue.PercentageChange)

	assert.Equal(t, "2", result.Customers.Current.String())
	assert.Equal(t, "1", result.Customers.Previous.String())
	assert.Equal(t, int64(100), result.Customers.PercentageChange)

	assert.Equal(t, "3", result.Orders.Current.String())
	assert.Equal(t, "2", result.Orders.Previous.String())
	assert.Equal(t, int64(50), result.Orders.PercentageChange)
}

func TestMonthlyComparisons_Empty(t *testing.T) {
	result := MonthlyComparisons(nil, date(2024, 3, 15))

	assert.True(t, result.Revenue.Current.IsZero())
	assert.Equal(t, int64(0), result.Revenue.PercentageChange)
	assert.Equal(t, int64(0), result.Orders.PercentageChange)
}

func TestFilterByRange(t *testing.T) {
	orders := []domain.Order{
		order(1, 1, date(2024, 1, 1), 10),
		order(2, 1, date(2024, 1, 15), 10),
		order(3, 1, date(2024, 1, 31), 10),
	}

	from := date(2024, 1, 1)
	to := date(2024, 1, 15)

	tests := []struct {
		name     string
		filters  *domain.DashboardFilters
		expected []int
	}{
		{name: "Sem filtro", filters: nil, expected: []int{1, 2, 3}},
		{name: "Sem limites", filters: &domain.DashboardFilters{}, expected: []int{1, 2, 3}},
		{name: "Limites inclusivos", filters: &domain.DashboardFilters{From: &from, To: &to}, expected: []int{1, 2}},
		{name: "Só início", filters: &domain.DashboardFilters{From: &to}, expected: []int{2, 3}},
		{name: "Só fim", filters: &domain.DashboardFilters{To: &from}, expected: []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FilterByRange(orders, tt.filters)

			ids := make([]int, 0, len(result))
			for _, o := range result {
				ids = append(ids, o.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestMonthSnapshot(t *testing.T) {
	orders := []domain.Order{
		order(1, 1, date(2024, 1, 1), 10),
		order(2, 2, date(2024, 1, 31), 15),
		order(3, 2, date(2024, 1, 20), 5),
		order(4, 3, date(2024, 2, 1), 100),
	}

	snapshot := MonthSnapshot(orders, date(2024, 1, 10))

	assert.Equal(t, "01-2024", snapshot.Period)
	assert.Equal(t, "30", snapshot.Revenue.String())
	assert.Equal(t, 3, snapshot.OrdersCount)
	assert.Equal(t, 2, snapshot.CustomersCount)
}
