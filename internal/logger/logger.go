// Package logger configures the application's logging,
// monitoring, and observability.
//
// It uses *ZeroLog* for logging and integrates with
// *New Relic* to instrument the codebase, forwarding logs,
// metrics, and traces for debugging.
package logger

import (
	"fmt"
	"os"

	"github.com/deppfellow/agencyhub/internal/config"
	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// LoggerService owns the optional New Relic application instance.
//
// When New Relic is not configured (empty license key) the service still
// exists but GetApplication returns nil, and every consumer degrades to a
// no-op for tracing concerns.
type LoggerService struct {
	nrApp *newrelic.Application
}

// GetApplication returns the New Relic application, or nil when APM is
// disabled.
func (ls *LoggerService) GetApplication() *LoggerApplication {
	return ls.nrApp
}

// LoggerApplication aliases the New Relic application type so callers only
// import this package for the common case.
type LoggerApplication = newrelic.Application

// New builds the application logger and the observability service.
//
// Behavior:
//   - Log level comes from observability config (env-sensitive defaults).
//   - "console" format (or local env) writes human-friendly output;
//     otherwise logs are JSON on stdout.
//   - When a New Relic license key is configured, the agent is started and
//     log output is routed through the agent's zerolog writer so logs are
//     forwarded and decorated with trace linking metadata.
func New(cfg *config.Config) (*zerolog.Logger, *LoggerService, error) {
	obs := cfg.Observability

	level, err := zerolog.ParseLevel(obs.GetLogLevel())
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", obs.GetLogLevel(), err)
	}

	service := &LoggerService{}

	if obs.NewRelic.LicenseKey != "" {
		opts := []newrelic.ConfigOption{
			newrelic.ConfigAppName(obs.ServiceName),
			newrelic.ConfigLicense(obs.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(obs.NewRelic.DistributedTracingEnabled),
			newrelic.ConfigAppLogForwardingEnabled(obs.NewRelic.AppLogForwardingEnabled),
		}
		if obs.NewRelic.DebugLogging {
			opts = append(opts, newrelic.ConfigDebugLogger(os.Stderr))
		}

		nrApp, err := newrelic.NewApplication(opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize new relic application: %w", err)
		}
		service.nrApp = nrApp
	}

	var logger zerolog.Logger
	switch {
	case obs.Logging.Format == "console" || cfg.Primary.Env == "local":
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().
			Str("service", obs.ServiceName).
			Logger()

	case service.nrApp != nil:
		// The zerologWriter decorates each line with linking metadata and
		// forwards it to New Relic while still writing to stdout.
		writer := zerologWriter.New(os.Stdout, service.nrApp)
		logger = zerolog.New(writer).
			Level(level).
			With().Timestamp().
			Str("service", obs.ServiceName).
			Str("env", obs.Environment).
			Logger()

	default:
		logger = zerolog.New(os.Stdout).
			Level(level).
			With().Timestamp().
			Str("service", obs.ServiceName).
			Str("env", obs.Environment).
			Logger()
	}

	return &logger, service, nil
}

// WithTraceContext returns a child logger carrying the trace and span ids
// of the given transaction, so log lines can be correlated with traces.
func WithTraceContext(logger zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return logger
	}

	md := txn.GetTraceMetadata()
	builder := logger.With()
	if md.TraceID != "" {
		builder = builder.Str("trace.id", md.TraceID)
	}
	if md.SpanID != "" {
		builder = builder.Str("span.id", md.SpanID)
	}
	return builder.Logger()
}
