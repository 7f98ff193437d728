package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/credivive/pipeline-manager-api/internal/config"
	"github.com/credivive/pipeline-manager-api/internal/usecases/quota"
	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// QuotaProvisioningConfig representa la configuración del cron de metas
type QuotaProvisioningConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// QuotaProvisioningService agenda y ejecuta el aprovisionamiento de metas:
// garantiza que cada ejecutivo activo tenga su fila de meta del periodo
// corriente, creando filas en cero para los faltantes
type QuotaProvisioningService struct {
	scheduler           *gocron.Scheduler
	config              QuotaProvisioningConfig
	quotaService        quota.Manager
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	now                 func() time.Time
}

// NewQuotaProvisioningService crea el servicio de aprovisionamiento de metas
func NewQuotaProvisioningService(
	quotaService quota.Manager,
	appConfig *config.Config,
) *QuotaProvisioningService {
	provisioningConfig := QuotaProvisioningConfig{
		CronSchedule: appConfig.QuotaSync.CronSchedule,
		SyncEnabled:  appConfig.QuotaSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": provisioningConfig.CronSchedule,
		"sync_enabled":  provisioningConfig.SyncEnabled,
	}).Info("Configuración del cron de metas cargada")

	return &QuotaProvisioningService{
		scheduler:    scheduler,
		config:       provisioningConfig,
		quotaService: quotaService,
		syncRunning:  false,
		now:          time.Now,
	}
}

// Start inicia el agendador
func (s *QuotaProvisioningService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Aprovisionamiento de metas deshabilitado por configuración")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando el cron de aprovisionamiento de metas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.provisionCurrentPeriod()
	})
	if err != nil {
		return fmt.Errorf("error al agendar el aprovisionamiento de metas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Deteniendo el cron de aprovisionamiento de metas")
		s.scheduler.Stop()
	}()

	return nil
}

// provisionCurrentPeriod crea las filas de meta faltantes del periodo corriente
func (s *QuotaProvisioningService) provisionCurrentPeriod() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Aprovisionamiento de metas ya en curso, se ignora")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	now := s.now()
	mes, anio := int(now.Month()), now.Year()

	logrus.WithFields(logrus.Fields{
		"mes":  mes,
		"anio": anio,
	}).Info("Iniciando aprovisionamiento de metas del periodo corriente")

	created, err := s.quotaService.EnsureProvisioned(mes, anio)
	if err != nil {
		logrus.WithError(err).Error("Error al aprovisionar metas del periodo corriente")
		return
	}

	logrus.WithFields(logrus.Fields{
		"mes":           mes,
		"anio":          anio,
		"filas_creadas": created,
		"duration":      time.Since(startTime).String(),
	}).Info("Aprovisionamiento de metas concluido")

	s.lastSyncCompletedAt = time.Now()
}

// TriggerManualSync dispara manualmente el aprovisionamiento
func (s *QuotaProvisioningService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Aprovisionamiento de metas ya en curso, se ignora la solicitud manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando aprovisionamiento manual de metas")
	go s.provisionCurrentPeriod()
}

// GetStatus devuelve el estado actual del agendador
func (s *QuotaProvisioningService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
