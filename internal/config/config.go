package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// DefaultSettingsKey signs settings records in development only.
const DefaultSettingsKey = "dev-settings-key-change-in-production"

// Settings store backends.
const (
	StoreFile   = "file"
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

var (
	ErrDefaultKey   = errors.New("PWGEN_SETTINGS_KEY must be set in production environment")
	ErrInvalidValue = errors.New("invalid configuration value")
)

type Config struct {
	BaseURL      string
	Timeout      time.Duration
	RPS          float64
	Burst        int
	Store        string
	SettingsPath string
	SettingsKey  string
	Profile      string
	DatabaseDSN  string
	Port         string
	Env          string
	LogLevel     string
	LogFile      string
}

func Load() (Config, error) {
	cfg := Config{
		BaseURL:      getEnv("PWGEN_BASE_URL", "http://localhost:5069/"),
		Store:        getEnv("PWGEN_SETTINGS_STORE", StoreFile),
		SettingsPath: getEnv("PWGEN_SETTINGS_PATH", ""),
		SettingsKey:  getEnv("PWGEN_SETTINGS_KEY", DefaultSettingsKey),
		Profile:      getEnv("PWGEN_PROFILE", "default"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/pwgen?parseTime=true"),
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		LogFile:      getEnv("PWGEN_LOG_FILE", ""),
	}

	var err error
	if cfg.Timeout, err = time.ParseDuration(getEnv("PWGEN_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("%w: PWGEN_TIMEOUT: %w", ErrInvalidValue, err)
	}
	if cfg.RPS, err = strconv.ParseFloat(getEnv("PWGEN_RPS", "5"), 64); err != nil {
		return Config{}, fmt.Errorf("%w: PWGEN_RPS: %w", ErrInvalidValue, err)
	}
	if cfg.Burst, err = strconv.Atoi(getEnv("PWGEN_BURST", "10")); err != nil {
		return Config{}, fmt.Errorf("%w: PWGEN_BURST: %w", ErrInvalidValue, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that flags may have overridden after Load.
func (c Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreMySQL, StoreMemory:
	default:
		return fmt.Errorf("%w: PWGEN_SETTINGS_STORE %q", ErrInvalidValue, c.Store)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: PWGEN_TIMEOUT must be positive", ErrInvalidValue)
	}
	if c.Env == "production" && c.SettingsKey == DefaultSettingsKey {
		slog.Error("PWGEN_SETTINGS_KEY must be set in production environment")
		return ErrDefaultKey
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
