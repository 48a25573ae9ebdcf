package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/gbax/gbax-core/internal/domain"
)

// Ledger modes select the remote progress backend.
const (
	LedgerModeMock = "mock"
	LedgerModeHTTP = "http"
)

// Config holds the application configuration
type Config struct {
	Port     int    `validate:"required,min=1,max=65535"`
	APIKey   string `validate:"required,min=16"`
	LogLevel string `validate:"required,oneof=DEBUG INFO WARN ERROR"`
	LogDir   string `validate:"required"`

	DBUser     string `validate:"required"`
	DBPassword string `validate:"required"`
	DBHost     string `validate:"required"`
	DBPort     string `validate:"required,numeric"`
	DBName     string `validate:"required"`

	// TuningPath points at the YAML tuning file; empty uses built-in defaults.
	TuningPath string

	// TickInterval drives the operation registry clock.
	TickInterval time.Duration `validate:"required,min=10ms"`

	// SweepInterval drives the effect ledger expiry sweep.
	SweepInterval time.Duration `validate:"required,min=100ms"`

	// SyncInterval drives the periodic remote progress push.
	SyncInterval time.Duration `validate:"required,min=10s"`

	// RegistrySeed seeds reward rolls; 0 means derive from the clock.
	RegistrySeed int64

	LedgerMode    string        `validate:"required,oneof=mock http"`
	LedgerURL     string        `validate:"required_if=LedgerMode http,omitempty,url"`
	LedgerAPIKey  string        `validate:"required_if=LedgerMode http"`
	LedgerTimeout time.Duration `validate:"required,min=100ms"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		LogDir:       getEnv("LOG_DIR", "logs"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", "postgres"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBName:       getEnv("DB_NAME", "gbax"),
		TuningPath:   getEnv("TUNING_PATH", ""),
		APIKey:       getEnv("API_KEY", ""),
		LedgerMode:   getEnv("LEDGER_MODE", LedgerModeMock),
		LedgerURL:    getEnv("LEDGER_URL", ""),
		LedgerAPIKey: getEnv("LEDGER_API_KEY", ""),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.RegistrySeed, err = getEnvInt64("REGISTRY_SEED", 0); err != nil {
		return nil, err
	}
	if cfg.TickInterval, err = getEnvDuration("TICK_INTERVAL", time.Second); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getEnvDuration("SWEEP_INTERVAL", time.Second); err != nil {
		return nil, err
	}
	if cfg.SyncInterval, err = getEnvDuration("SYNC_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.LedgerTimeout, err = getEnvDuration("LEDGER_TIMEOUT", 3*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate applies the struct rules and folds violations into ErrInvalidConfig.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, fields)
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s value %q", domain.ErrInvalidConfig, key, raw)
	}
	return v, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s value %q", domain.ErrInvalidConfig, key, raw)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s value %q", domain.ErrInvalidConfig, key, raw)
	}
	return v, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
