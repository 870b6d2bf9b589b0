package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	// DefaultTokenSecret is the TOKEN_SECRET placeholder. Load rejects it
	// once an admin account is configured.
	DefaultTokenSecret = "change_this_secret"
)

type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8082"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"expo_draw"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/app.db"`

	// Empty disables domain event publishing.
	RabbitURL string `env:"RABBITMQ_URL"`
	// Logs every published event through a private subscriber queue.
	EventLog bool `env:"EVENT_LOG" envDefault:"false"`

	AdminUsername     string        `env:"ADMIN_USERNAME"`
	AdminPassword     string        `env:"ADMIN_PASSWORD"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	TokenSecret       string        `env:"TOKEN_SECRET" envDefault:"change_this_secret"`
	TokenTTL          time.Duration `env:"TOKEN_TTL" envDefault:"12h"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"8h"`

	PublicBaseURL         string  `env:"PUBLIC_BASE_URL"`
	DefaultExhibitionName string  `env:"DEFAULT_EXHIBITION_NAME" envDefault:"默认展会"`
	DefaultWinRate        float64 `env:"DEFAULT_WIN_RATE" envDefault:"0.3"`

	LogVerbose bool `env:"LOG_VERBOSE" envDefault:"false"`
}

// Load reads an optional .env file and then decodes the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBDriver != DriverPostgres && cfg.DBDriver != DriverSQLite {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.AdminUsername != "" && cfg.TokenSecret == DefaultTokenSecret {
		return nil, errors.New("TOKEN_SECRET must be set when ADMIN_USERNAME is set")
	}
	return &cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}
