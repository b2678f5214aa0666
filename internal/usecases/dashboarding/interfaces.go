package dashboarding

import (
	"context"

	"github.com/vfg2006/storefront-api/internal/domain"
)

// Dashboarder é o que a camada HTTP consome do dashboard
type Dashboarder interface {
	// GetSummary calcula os números do painel a partir dos pedidos e clientes atuais
	GetSummary(ctx context.Context, filters *domain.DashboardFilters) (*domain.DashboardSummary, error)

	// GetSnapshot devolve o fechamento mensal gravado para o período (mm-yyyy)
	GetSnapshot(period string) (*domain.MonthlySalesSnapshot, error)

	// GetAvailablePeriods lista os períodos com fechamento gravado
	GetAvailablePeriods() (*domain.AvailablePeriods, error)
}
