// Package scheduler contém os serviços de agendamento para sincronização de dados
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/storefront-api/infrastructure/integrator/storefront"
	"github.com/vfg2006/storefront-api/infrastructure/repository"
	"github.com/vfg2006/storefront-api/internal/config"
	"github.com/vfg2006/storefront-api/internal/usecases/dashboarding"
	"github.com/vfg2006/storefront-api/pkg/utils"
)

const syncTimeout = 2 * time.Minute

// MonthlySnapshotSyncConfig representa a configuração do agendador de fechamentos mensais
type MonthlySnapshotSyncConfig struct {
	CronSchedule  string
	SyncEnabled   bool
	MonthLookBack int
}

// MonthlySnapshotSyncService grava, para cada mês fechado, receita, pedidos e clientes distintos
type MonthlySnapshotSyncService struct {
	scheduler           *gocron.Scheduler
	config              MonthlySnapshotSyncConfig
	orderReader         storefront.OrderReader
	snapshotRepo        repository.MonthlySalesSnapshotRepository
	now                 func() time.Time
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
	lastSyncPeriods     []string
}

func NewMonthlySnapshotSyncService(
	orderReader storefront.OrderReader,
	snapshotRepo repository.MonthlySalesSnapshotRepository,
	appConfig *config.Config,
) *MonthlySnapshotSyncService {
	syncConfig := MonthlySnapshotSyncConfig{
		CronSchedule:  appConfig.MonthlySnapshotSync.CronSchedule,
		SyncEnabled:   appConfig.MonthlySnapshotSync.Enabled,
		MonthLookBack: appConfig.MonthlySnapshotSync.MonthLookBack,
	}

	if syncConfig.MonthLookBack <= 0 {
		syncConfig.MonthLookBack = 1
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":   syncConfig.CronSchedule,
		"sync_enabled":    syncConfig.SyncEnabled,
		"month_look_back": syncConfig.MonthLookBack,
	}).Info("Configuração do agendador de fechamentos mensais carregada")

	return &MonthlySnapshotSyncService{
		scheduler:    gocron.NewScheduler(time.Local),
		config:       syncConfig,
		orderReader:  orderReader,
		snapshotRepo: snapshotRepo,
		now:          time.Now,
	}
}

// Start inicia o agendador
func (s *MonthlySnapshotSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de fechamentos mensais desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de fechamentos mensais")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncMonthlySnapshots()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar fechamentos mensais: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de fechamentos mensais")
		s.scheduler.Stop()
	}()

	return nil
}

// syncMonthlySnapshots grava os últimos MonthLookBack meses fechados; o mês corrente fica de fora
func (s *MonthlySnapshotSyncService) syncMonthlySnapshots() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de fechamentos mensais já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	periods, err := s.processSnapshots()

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = s.now()
	s.lastSyncPeriods = periods
	s.lastSyncError = ""
	if err != nil {
		s.lastSyncError = err.Error()
	}
	s.syncMutex.Unlock()

	if err != nil {
		logrus.WithError(err).Error("Erro na sincronização de fechamentos mensais")
		return
	}

	logrus.WithField("periods", periods).Info("Sincronização de fechamentos mensais concluída")
}

func (s *MonthlySnapshotSyncService) processSnapshots() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	orders, err := s.orderReader.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar pedidos: %w", err)
	}

	current := utils.MonthStart(s.now())
	saved := make([]string, 0, s.config.MonthLookBack)

	var failed int
	for i := 1; i <= s.config.MonthLookBack; i++ {
		month := current.AddDate(0, -i, 0)
		snapshot := dashboarding.MonthSnapshot(orders, month)

		if err := s.snapshotRepo.SaveOrUpdate(snapshot); err != nil {
			failed++
			logrus.WithError(err).WithField("period", snapshot.Period).Error("Erro ao salvar fechamento mensal")
			continue
		}

		logrus.WithFields(logrus.Fields{
			"period":          snapshot.Period,
			"revenue":         snapshot.Revenue.String(),
			"orders_count":    snapshot.OrdersCount,
			"customers_count": snapshot.CustomersCount,
		}).Info("Fechamento mensal salvo com sucesso")

		saved = append(saved, snapshot.Period)
	}

	if failed > 0 {
		return saved, fmt.Errorf("%d de %d fechamentos não foram salvos", failed, s.config.MonthLookBack)
	}

	return saved, nil
}

// TriggerManualSync inicia manualmente uma sincronização de fechamentos mensais
func (s *MonthlySnapshotSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de fechamentos mensais já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando sincronização manual de fechamentos mensais")
	go s.syncMonthlySnapshots()
}

// GetStatus retorna o status atual da sincronização
func (s *MonthlySnapshotSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":           s.syncRunning,
		"sync_cron":              s.config.CronSchedule,
		"sync_enabled":           s.config.SyncEnabled,
		"month_look_back":        s.config.MonthLookBack,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_periods":      s.lastSyncPeriods,
		"last_sync_error":        s.lastSyncError,
	}
}
