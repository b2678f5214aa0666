package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/storefront-api/internal/scheduler"
	"github.com/vfg2006/storefront-api/pkg/apiErrors"
	"github.com/vfg2006/storefront-api/pkg/log"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeMonthlySnapshots = "monthly-snapshots"
	CronJobTypeAll              = "all"
)

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	MonthlySnapshotSyncService *scheduler.MonthlySnapshotSyncService
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeMonthlySnapshots, CronJobTypeAll:
			if services.MonthlySnapshotSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrServiceDisabled, "Serviço de fechamentos mensais não disponível", nil)
				return
			}
			services.MonthlySnapshotSyncService.TriggerManualSync()
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: monthly-snapshots, all", nil)
			return
		}

		logger.WithField("type", cronType).Info("cron: execução manual iniciada")

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	})
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}

		if services.MonthlySnapshotSyncService != nil {
			status[CronJobTypeMonthlySnapshots] = services.MonthlySnapshotSyncService.GetStatus()
		}

		writeJSON(w, r, http.StatusOK, status)
	})
}
