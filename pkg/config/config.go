package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"tebuto/pkg/errors"
	"tebuto/pkg/logger"
)

// Config carries the shared identity and connection settings every booking
// component needs. Construct it once with New and pass it by reference;
// components reject a nil Config as a programming error.
type Config struct {
	TherapistUUID   string
	APIBaseURL      string
	Categories      []int
	IncludeSubusers bool

	Log *logger.Logger
}

type Option func(*Config)

func WithAPIBaseURL(baseURL string) Option {
	return func(cfg *Config) {
		cfg.APIBaseURL = baseURL
	}
}

// WithCategories sets the default category filter applied to slot listings
// unless a catalog overrides it.
func WithCategories(ids ...int) Option {
	return func(cfg *Config) {
		cfg.Categories = ids
	}
}

func WithIncludeSubusers(include bool) Option {
	return func(cfg *Config) {
		cfg.IncludeSubusers = include
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(cfg *Config) {
		cfg.Log = log
	}
}

// New builds a validated configuration. The base URL falls back to the
// TEBUTO_API_BASE_URL environment variable, then to the production endpoint.
func New(therapistUUID string, opts ...Option) (*Config, error) {
	cfg := &Config{
		TherapistUUID: strings.TrimSpace(therapistUUID),
		APIBaseURL:    getEnvStr(EnvAPIBaseURL, DefaultAPIBaseURL),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Log == nil {
		cfg.Log = logger.New(logger.Config{
			Level:   getEnvStr(EnvLogLevel, logger.INFO),
			Format:  getEnvStr(EnvLogFormat, logger.JSON),
			Service: DefaultServiceName,
		})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.TherapistUUID == "" {
		return errors.Configuration("therapist UUID is required")
	}
	if _, err := uuid.Parse(cfg.TherapistUUID); err != nil {
		return errors.Configuration(fmt.Sprintf("therapist UUID %q is not a valid UUID", cfg.TherapistUUID))
	}
	if cfg.APIBaseURL == "" {
		return errors.Configuration("API base URL cannot be empty")
	}
	return nil
}

// BuildURL concatenates the base URL and a path. Paths are expected to start
// with a slash.
func (cfg *Config) BuildURL(path string) string {
	return cfg.APIBaseURL + path
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
