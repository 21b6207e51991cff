// Package config manages environment variables.
//
// It reads variables from the `.env` file, loads them into
// structured Go types, and validates that required values are
// present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config.
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file into the process
	// environment before any env var is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Config is the root configuration object for the application.
//
// Env vars are read with the AGENCYHUB_ prefix and mapped into nested
// blocks via "." delimited keys, e.g. AGENCYHUB_SERVER.PORT -> server.port.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are stored as seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the allowed request rate per client IP, in requests
	// per second. Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MinIdleConns    int    `koanf:"min_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details. Address is "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores authentication-related secrets.
//
// SecretKey is the Clerk secret key used to verify bearer tokens.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// IntegrationConfig groups third-party integration credentials and
// addresses that are not part of the core infrastructure.
type IntegrationConfig struct {
	// ResendAPIKey authenticates against the Resend email API.
	ResendAPIKey string `koanf:"resend_api_key" validate:"required"`

	// EmailFrom is the verified sender address for outgoing email.
	EmailFrom string `koanf:"email_from" validate:"required,email"`

	// NotificationsEmail receives operational notifications such as
	// service-created events.
	NotificationsEmail string `koanf:"notifications_email" validate:"required,email"`
}

// New loads configuration from environment variables, unmarshals it into
// Config, validates it, applies defaults, and returns the resulting config.
func New() (*Config, error) {
	// Config loading happens before the application logger exists, so use
	// a minimal console logger for load-time failures.
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	// Only env vars with the AGENCYHUB_ prefix are considered. The prefix
	// is stripped and the remainder lowercased, so nested keys use the
	// AGENCYHUB_<BLOCK>.<FIELD> convention.
	err := k.Load(env.Provider("AGENCYHUB_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "AGENCYHUB_"))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not load initial env variables.")
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("Could not unmarshal main config.")
	}

	// Inject default observability config if none was provided. This has to
	// happen before validation: a partially supplied block inherits the
	// forced fields below rather than failing on them.
	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}
	if mainConfig.Observability.Logging.Level == "" {
		mainConfig.Observability.Logging.Level = DefaultObservabilityConfig().Logging.Level
	}
	if mainConfig.Observability.Logging.Format == "" {
		mainConfig.Observability.Logging.Format = DefaultObservabilityConfig().Logging.Format
	}
	if mainConfig.Observability.HealthChecks.Interval == 0 {
		mainConfig.Observability.HealthChecks = DefaultObservabilityConfig().HealthChecks
	}

	// Service name and environment are forced from the primary block so
	// logs and traces carry consistent identifiers.
	mainConfig.Observability.ServiceName = "agencyhub"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("Config validation failed.")
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return mainConfig, nil
}
