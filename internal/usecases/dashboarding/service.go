package dashboarding

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront"
	"github.com/vfg2006/storefront-api/infrastructure/repository"
	"github.com/vfg2006/storefront-api/internal/config"
	"github.com/vfg2006/storefront-api/internal/domain"
	"github.com/vfg2006/storefront-api/pkg/log"
	"github.com/vfg2006/storefront-api/pkg/utils"
)

// Service monta o painel administrativo a partir dos pedidos e clientes do storefront
type Service struct {
	cfg          *config.Config
	orderReader  storefront.OrderReader
	snapshotRepo repository.MonthlySalesSnapshotRepository
	now          func() time.Time
}

func NewService(cfg *config.Config, orderReader storefront.OrderReader) *Service {
	return &Service{
		cfg:         cfg,
		orderReader: orderReader,
		now:         time.Now,
	}
}

// WithSnapshots habilita a leitura dos fechamentos mensais gravados
func (s *Service) WithSnapshots(repo repository.MonthlySalesSnapshotRepository) *Service {
	s.snapshotRepo = repo
	return s
}

// WithClock troca o relógio usado para montar o gráfico e as comparações
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetSummary busca pedidos e clientes em paralelo. Falha em uma das buscas não derruba o painel:
// a coleção vira vazia e o erro aparece em Errors com Degraded marcado.
// Totais e vendas recentes respeitam o filtro de datas; gráfico e comparação mensal usam todos os pedidos.
func (s *Service) GetSummary(ctx context.Context, filters *domain.DashboardFilters) (*domain.DashboardSummary, error) {
	now := s.now()
	filters = s.resolveFilters(filters, now)

	if filters.From != nil && filters.To != nil && filters.From.After(*filters.To) {
		return nil, ErrInvalidRange
	}

	var (
		wg          sync.WaitGroup
		orders      []domain.Order
		customers   []domain.Customer
		ordersErr   error
		customerErr error
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		orders, ordersErr = s.orderReader.ListOrders(ctx)
	}()

	go func() {
		defer wg.Done()
		customers, customerErr = s.orderReader.ListCustomers(ctx)
	}()

	wg.Wait()

	summary := &domain.DashboardSummary{
		Filters: filters,
	}

	if ordersErr != nil {
		log.ForContext(ctx).WithError(ordersErr).Error("Erro ao buscar pedidos para o dashboard")
		summary.Degraded = true
		summary.Errors = append(summary.Errors, ordersErr.Error())
		orders = []domain.Order{}
	}

	if customerErr != nil {
		log.ForContext(ctx).WithError(customerErr).Error("Erro ao buscar clientes para o dashboard")
		summary.Degraded = true
		summary.Errors = append(summary.Errors, customerErr.Error())
		customers = nil
	}

	filtered := FilterByRange(orders, filters)

	summary.TotalRevenue = TotalRevenue(filtered)
	summary.TotalOrders = len(filtered)
	summary.RecentSales = RecentSales(filtered, s.recentSalesLimit())
	summary.ChartSeries = ChartSeries(orders, now, s.chartMonths())
	summary.Comparisons = MonthlyComparisons(orders, now)

	if customerErr == nil {
		summary.TotalCustomers = len(customers)
	} else {
		summary.TotalCustomers = ActiveCustomers(filtered)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"dashboard_orders":   len(orders),
		"dashboard_filtered": len(filtered),
		"dashboard_degraded": summary.Degraded,
	}).Debug("Dashboard calculado")

	return summary, nil
}

func (s *Service) GetSnapshot(period string) (*domain.MonthlySalesSnapshot, error) {
	if s.snapshotRepo == nil {
		return nil, ErrSnapshotsDisabled
	}

	if _, err := utils.ParsePeriod(period); err != nil {
		return nil, ErrInvalidPeriod
	}

	snapshot, err := s.snapshotRepo.GetByPeriod(period)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao buscar snapshot do período %s", period)
	}

	if snapshot == nil {
		return nil, ErrSnapshotNotFound
	}

	return snapshot, nil
}

// GetAvailablePeriods devolve os períodos gravados com os anos e meses distintos, ordenados
func (s *Service) GetAvailablePeriods() (*domain.AvailablePeriods, error) {
	if s.snapshotRepo == nil {
		return nil, ErrSnapshotsDisabled
	}

	periods, err := s.snapshotRepo.GetAllPeriods()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar períodos de snapshots")
	}

	periodMap := make(map[string]bool)
	yearMap := make(map[string]bool)
	monthMap := make(map[string]bool)

	for _, period := range periods {
		periodMap[period] = true

		// Formato mm-yyyy
		if len(period) == 7 {
			monthMap[period[:2]] = true
			yearMap[period[3:]] = true
		}
	}

	result := &domain.AvailablePeriods{
		Periods: keys(periodMap),
		Years:   keys(yearMap),
		Months:  keys(monthMap),
	}

	return result, nil
}

// resolveFilters aplica o intervalo padrão (último mês até agora) quando nenhum limite foi informado
func (s *Service) resolveFilters(filters *domain.DashboardFilters, now time.Time) *domain.DashboardFilters {
	if filters != nil && (filters.From != nil || filters.To != nil) {
		return filters
	}

	months := 1
	if s.cfg != nil && s.cfg.Dashboard.DefaultRangeMonth > 0 {
		months = s.cfg.Dashboard.DefaultRangeMonth
	}

	from := now.AddDate(0, -months, 0)
	to := now

	return &domain.DashboardFilters{From: &from, To: &to}
}

func (s *Service) chartMonths() int {
	if s.cfg == nil {
		return DefaultChartMonths
	}
	return s.cfg.Dashboard.ChartMonths
}

func (s *Service) recentSalesLimit() int {
	if s.cfg == nil {
		return DefaultRecentSalesLimit
	}
	return s.cfg.Dashboard.RecentSalesLimit
}

func keys(set map[string]bool) []string {
	result := make([]string, 0, len(set))
	for key := range set {
		result = append(result, key)
	}
	sort.Strings(result)
	return result
}
