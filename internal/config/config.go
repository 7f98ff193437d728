package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Database  Database  `mapstructure:",squash"`
	Auth      Auth      `mapstructure:",squash"`
	Retry     Retry     `mapstructure:",squash"`
	QuotaSync QuotaSync `mapstructure:",squash"`
	SecretKey string    `mapstructure:"secret_key"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Auth struct {
	TokenTTLHours int `mapstructure:"auth_token_ttl_hours"`
}

// Retry gobierna el reintento de las cargas iniciales: existe para tolerar
// un backend arrancando en frío, no fallas sostenidas
type Retry struct {
	MaxAttempts  int `mapstructure:"retry_max_attempts"`
	DelaySeconds int `mapstructure:"retry_delay_seconds"`
}

// QuotaSync configura el cron que aprovisiona filas de metas en cero para
// los ejecutivos activos sin registro en el periodo corriente
type QuotaSync struct {
	CronSchedule string `mapstructure:"quota_sync_cron"`
	Enabled      bool   `mapstructure:"quota_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/credivive")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("AUTH_TOKEN_TTL_HOURS", 24)

	// Reintento de cargas iniciales: 2 reintentos con 2s entre intentos
	viper.SetDefault("RETRY_MAX_ATTEMPTS", 3)
	viper.SetDefault("RETRY_DELAY_SECONDS", 2)

	viper.SetDefault("QUOTA_SYNC_CRON", "0 7 * * *") // Todos los días a las 7h
	viper.SetDefault("QUOTA_SYNC_ENABLED", true)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variables cargadas por godotenv (viper no pudo leer .env):", err)
	} else {
		logrus.Info("Archivo .env leído por viper con éxito")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// loadEnvFile intenta cargar el archivo .env desde ubicaciones conocidas
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("No fue posible obtener el directorio actual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Archivo .env cargado con éxito desde:", location)
			return
		}
	}

	logrus.Warn("No fue posible cargar el archivo .env desde ninguna ubicación conocida")
}
