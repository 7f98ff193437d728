package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/credivive/pipeline-manager-api/internal/config"
	quotamocks "github.com/credivive/pipeline-manager-api/internal/usecases/quota/mocks"
	"github.com/go-co-op/gocron"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newTestProvisioningService(quotaService *quotamocks.MockManager) *QuotaProvisioningService {
	return &QuotaProvisioningService{
		scheduler: gocron.NewScheduler(time.Local),
		config: QuotaProvisioningConfig{
			CronSchedule: "0 7 * * *",
			SyncEnabled:  true,
		},
		quotaService: quotaService,
		now: func() time.Time {
			return time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
		},
	}
}

func TestQuotaProvisioningService_provisionCurrentPeriod(t *testing.T) {
	t.Run("aprovisiona el periodo corriente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuotaService := quotamocks.NewMockManager(ctrl)
		service := newTestProvisioningService(mockQuotaService)

		mockQuotaService.EXPECT().
			EnsureProvisioned(6, 2025).
			Return(3, nil)

		service.provisionCurrentPeriod()

		assert.False(t, service.lastSyncStartedAt.IsZero())
		assert.False(t, service.lastSyncCompletedAt.IsZero())
		assert.False(t, service.syncRunning)
	})

	t.Run("el error no marca la corrida como completada", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockQuotaService := quotamocks.NewMockManager(ctrl)
		service := newTestProvisioningService(mockQuotaService)

		mockQuotaService.EXPECT().
			EnsureProvisioned(6, 2025).
			Return(0, errors.New("conexión perdida"))

		service.provisionCurrentPeriod()

		assert.False(t, service.lastSyncStartedAt.IsZero())
		assert.True(t, service.lastSyncCompletedAt.IsZero())
		assert.False(t, service.syncRunning)
	})

	t.Run("se ignora cuando ya hay una corrida en curso", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// Sin expectativas: no debe tocar el servicio de metas
		mockQuotaService := quotamocks.NewMockManager(ctrl)
		service := newTestProvisioningService(mockQuotaService)
		service.syncRunning = true

		service.provisionCurrentPeriod()

		assert.True(t, service.syncRunning)
	})
}

func TestQuotaProvisioningService_Start_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuotaService := quotamocks.NewMockManager(ctrl)

	cfg := &config.Config{
		QuotaSync: config.QuotaSync{
			CronSchedule: "0 7 * * *",
			Enabled:      false,
		},
	}

	service := NewQuotaProvisioningService(mockQuotaService, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := service.Start(ctx)
	assert.NoError(t, err)
}

func TestQuotaProvisioningService_GetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuotaService := quotamocks.NewMockManager(ctrl)
	service := newTestProvisioningService(mockQuotaService)

	status := service.GetStatus()

	assert.Equal(t, true, status["sync_enabled"])
	assert.Equal(t, "0 7 * * *", status["sync_cron"])
	assert.Contains(t, status, "last_sync_started_at")
	assert.Contains(t, status, "last_sync_completed_at")
}
