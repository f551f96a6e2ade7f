// Package observability provides OpenTelemetry tracing, metrics and
// structured logging for the ivindex CLI and for programs that embed the
// script runner.
package observability

import (
	"io"
	"log/slog"
)

// AppMode identifies how the index is being driven.
type AppMode string

const (
	// ModeCLI is the ivindex command line tool.
	ModeCLI AppMode = "cli"
	// ModeLibrary is a host program running scripts through the Go API.
	ModeLibrary AppMode = "library"
)

const (
	// defaultServiceName is the default OTel service name.
	defaultServiceName = "ivindex"

	// defaultShutdownTimeoutSec is the default shutdown timeout in seconds.
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the semantic version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment (e.g. "production", "dev").
	Environment string

	// Mode identifies how the binary was launched.
	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables export.
	OTLPEndpoint string

	// OTLPHeaders are additional gRPC metadata headers for the OTLP exporter.
	OTLPHeaders map[string]string

	// OTLPInsecure disables TLS for the OTLP gRPC connection.
	OTLPInsecure bool

	// DebugTrace forces 100% trace sampling and logs attributes dropped by
	// the span filter.
	DebugTrace bool

	// Sampler names the trace sampler (one of the Sampler* constants). Empty
	// means SamplerParentBasedTraceIDRatio. OTEL_TRACES_SAMPLER overrides it.
	Sampler string

	// SampleRatio is the ratio used by the ratio samplers (0.0 to 1.0) when
	// DebugTrace is false. Zero samples every root span.
	SampleRatio float64

	// PrometheusTextfile is the path Providers.WriteMetrics dumps metrics to
	// in the Prometheus text format. Empty disables the dump.
	PrometheusTextfile string

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// LogJSON enables JSON-formatted log output.
	LogJSON bool

	// LogOutput receives log records. Nil means os.Stderr.
	LogOutput io.Writer

	// ShutdownTimeoutSec is the maximum seconds to wait for flush on shutdown.
	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config for zero-config startup: no export,
// text logs at info level.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

// Exporting reports whether any telemetry leaves the process.
func (c Config) Exporting() bool {
	return c.OTLPEndpoint != "" || c.PrometheusTextfile != ""
}
