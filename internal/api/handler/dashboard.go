package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/storefront-api/internal/domain"
	"github.com/vfg2006/storefront-api/internal/usecases/dashboarding"
	"github.com/vfg2006/storefront-api/pkg/apiErrors"
	"github.com/vfg2006/storefront-api/pkg/log"
	"github.com/vfg2006/storefront-api/pkg/utils"
)

// GetDashboard aceita ?from= e ?to= no formato yyyy-mm-dd; to inclui o dia inteiro
func GetDashboard(service dashboarding.Dashboarder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		filters := &domain.DashboardFilters{}

		if from := r.URL.Query().Get("from"); from != "" {
			date, err := utils.ParseDate(from)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Formato de data inválido para from. Use yyyy-mm-dd", nil)
				return
			}
			filters.From = date
		}

		if to := r.URL.Query().Get("to"); to != "" {
			date, err := utils.ParseDate(to)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Formato de data inválido para to. Use yyyy-mm-dd", nil)
				return
			}
			filters.To = utils.EndOfDay(date)
		}

		summary, err := service.GetSummary(r.Context(), filters)
		if err != nil {
			logger.WithError(err).Error("dashboard: erro ao montar painel")
			writeDashboardError(w, err)
			return
		}

		logger.WithFields(log.Fields{
			"total_orders": summary.TotalOrders,
			"degraded":     summary.Degraded,
		}).Info("dashboard: painel gerado")

		writeJSON(w, r, http.StatusOK, summary)
	})
}

func GetSnapshotPeriods(service dashboarding.Dashboarder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		periods, err := service.GetAvailablePeriods()
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("dashboard-periods: erro ao buscar períodos")
			writeDashboardError(w, err)
			return
		}

		writeJSON(w, r, http.StatusOK, periods)
	})
}

// GetSnapshot devolve o fechamento gravado do período (mm-yyyy)
func GetSnapshot(service dashboarding.Dashboarder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		period := httprouter.ParamsFromContext(r.Context()).ByName("period")

		snapshot, err := service.GetSnapshot(period)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).WithField("period", period).Error("dashboard-snapshots: erro ao buscar fechamento")
			writeDashboardError(w, err)
			return
		}

		writeJSON(w, r, http.StatusOK, snapshot)
	})
}

func writeDashboardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dashboarding.ErrInvalidRange), errors.Is(err, dashboarding.ErrInvalidPeriod):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
	case errors.Is(err, dashboarding.ErrSnapshotNotFound):
		apiErrors.WriteError(w, apiErrors.ErrNotFound, err.Error(), nil)
	case errors.Is(err, dashboarding.ErrSnapshotsDisabled):
		apiErrors.WriteError(w, apiErrors.ErrServiceDisabled, err.Error(), nil)
	default:
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, err.Error(), nil)
	}
}
