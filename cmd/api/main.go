package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/credivive/pipeline-manager-api/infrastructure/database/postgres"
	"github.com/credivive/pipeline-manager-api/infrastructure/repository"
	"github.com/credivive/pipeline-manager-api/internal/api"
	"github.com/credivive/pipeline-manager-api/internal/config"
	"github.com/credivive/pipeline-manager-api/internal/events"
	"github.com/credivive/pipeline-manager-api/internal/scheduler"
	"github.com/credivive/pipeline-manager-api/internal/usecases/aggregating"
	"github.com/credivive/pipeline-manager-api/internal/usecases/authenticating"
	"github.com/credivive/pipeline-manager-api/internal/usecases/pipeline"
	"github.com/credivive/pipeline-manager-api/internal/usecases/quota"
	"github.com/credivive/pipeline-manager-api/pkg/retry"
	"github.com/sirupsen/logrus"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nivel de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nivel de log configurado a: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg)
	defer pgConn.Close()

	clientRepo := repository.NewClientRepository(pgConn)
	historyRepo := repository.NewStatusHistoryRepository(pgConn)
	quotaRepo := repository.NewQuotaRepository(pgConn)
	userRepo := repository.NewUserRepository(pgConn)

	bus := events.NewBus()

	authenticator := authenticating.NewService(userRepo, cfg)
	pipelineService := pipeline.NewService(clientRepo, historyRepo, bus)
	insightService := aggregating.NewService(clientRepo, quotaRepo)
	quotaService := quota.NewService(quotaRepo, clientRepo, userRepo)

	quotaProvisioningService := scheduler.NewQuotaProvisioningService(quotaService, cfg)

	if err := quotaProvisioningService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Error al iniciar el cron de aprovisionamiento de metas")
	} else {
		logrus.Info("Cron de aprovisionamiento de metas iniciado con éxito")
	}

	server, err := api.New(
		cfg,
		pipelineService,
		insightService,
		quotaService,
		authenticator,
		bus,
		quotaProvisioningService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura el formato y comportamiento de los logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn abre la conexión con la base de datos, reintentando el arranque
// en frío del backend según la configuración de reintentos
func pgconn(ctx context.Context, cfg *config.Config) *postgres.Connection {
	delay := time.Duration(cfg.Retry.DelaySeconds) * time.Second

	conn, err := retry.DoWithResult(ctx, cfg.Retry.MaxAttempts, delay, func() (*postgres.Connection, error) {
		return postgres.NewConnection(ctx, cfg.Database)
	})
	if err != nil {
		logrus.WithError(err).Fatal("Error al conectar con PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Error al probar la conexión con PostgreSQL")
	}

	logrus.Info("Conexión con PostgreSQL establecida con éxito")
	return conn
}
