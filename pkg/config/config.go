// Package config loads ivindex settings from a YAML file, IVINDEX_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/ivindex/pkg/alg/interval"
	"github.com/Sumatoshi-tech/ivindex/pkg/observability"
)

// Sentinel validation errors.
var (
	ErrInvalidAugmentation = errors.New("invalid index augmentation")
	ErrInvalidLogLevel     = errors.New("invalid log level")
	ErrInvalidLogFormat    = errors.New("invalid log format")
	ErrInvalidSampleRatio  = errors.New("sample ratio must be within [0, 1]")
	ErrInvalidSampler      = errors.New("unknown trace sampler")
	ErrInvalidTimeout      = errors.New("shutdown timeout must be positive")
	ErrInvalidOutput       = errors.New("invalid output format")
	ErrInvalidColor        = errors.New("invalid color mode")
)

const (
	configName = "ivindex"
	configType = "yaml"
	envPrefix  = "IVINDEX"
)

// Config holds all ivindex configuration.
type Config struct {
	Index         IndexConfig         `mapstructure:"index"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
	Output        OutputConfig        `mapstructure:"output"`
}

// IndexConfig selects how interval indexes are built.
type IndexConfig struct {
	Augmentation   string `mapstructure:"augmentation"`
	LegacyCounter  bool   `mapstructure:"legacy_counter"`
	RejectInverted bool   `mapstructure:"reject_inverted"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ObservabilityConfig holds OpenTelemetry export settings.
type ObservabilityConfig struct {
	ServiceName        string  `mapstructure:"service_name"`
	Environment        string  `mapstructure:"environment"`
	OTLPEndpoint       string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders        string  `mapstructure:"otlp_headers"`
	Sampler            string  `mapstructure:"sampler"`
	SampleRatio        float64 `mapstructure:"sample_ratio"`
	ShutdownTimeoutSec int     `mapstructure:"shutdown_timeout_sec"`
	OTLPInsecure       bool    `mapstructure:"otlp_insecure"`
	DebugTrace         bool    `mapstructure:"debug_trace"`
}

// MetricsConfig holds the Prometheus textfile settings.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// OutputConfig controls how reports are rendered.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  string `mapstructure:"color"`
}

// LoadConfig loads configuration from file and environment variables.
// An explicit configPath must exist; without one, ivindex.yaml is searched
// in ".", "./config" and "/etc/ivindex", and a missing file means defaults.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType(configType)
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/ivindex")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults registers the default value of every key.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("index.augmentation", DefaultAugmentation)
	viperCfg.SetDefault("index.legacy_counter", DefaultLegacyCounter)
	viperCfg.SetDefault("index.reject_inverted", DefaultRejectInverted)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("observability.service_name", DefaultServiceName)
	viperCfg.SetDefault("observability.environment", "")
	viperCfg.SetDefault("observability.otlp_endpoint", "")
	viperCfg.SetDefault("observability.otlp_headers", "")
	viperCfg.SetDefault("observability.otlp_insecure", false)
	viperCfg.SetDefault("observability.debug_trace", false)
	viperCfg.SetDefault("observability.sampler", DefaultSampler)
	viperCfg.SetDefault("observability.sample_ratio", DefaultSampleRatio)
	viperCfg.SetDefault("observability.shutdown_timeout_sec", DefaultShutdownTimeoutSec)

	viperCfg.SetDefault("metrics.textfile", "")

	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.color", DefaultColor)
}

// validateConfig rejects enumeration values and ranges LoadConfig cannot use.
func validateConfig(config *Config) error {
	if !slices.Contains([]string{AugmentationIncremental, AugmentationFull}, config.Index.Augmentation) {
		return fmt.Errorf("%w: %q", ErrInvalidAugmentation, config.Index.Augmentation)
	}

	if _, err := observability.ParseLevel(config.Logging.Level); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	if !slices.Contains([]string{LogFormatText, LogFormatJSON}, config.Logging.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Observability.SampleRatio < 0 || config.Observability.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, config.Observability.SampleRatio)
	}

	if !observability.IsSampler(config.Observability.Sampler) {
		return fmt.Errorf("%w: %q", ErrInvalidSampler, config.Observability.Sampler)
	}

	if config.Observability.ShutdownTimeoutSec <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTimeout, config.Observability.ShutdownTimeoutSec)
	}

	if !slices.Contains([]string{OutputTable, OutputJSON, OutputYAML}, config.Output.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidOutput, config.Output.Format)
	}

	if !slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, config.Output.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, config.Output.Color)
	}

	return nil
}

// IndexOptions converts the index section into interval.Options.
func (c *Config) IndexOptions() interval.Options[string] {
	opts := interval.Options[string]{
		CompareValues:  strings.Compare,
		LegacyCounter:  c.Index.LegacyCounter,
		RejectInverted: c.Index.RejectInverted,
	}

	if c.Index.Augmentation == AugmentationFull {
		opts.Augment = interval.AugmentFull
	}

	return opts
}

// ObservabilityConfig converts the logging, observability and metrics
// sections into an observability.Config for the given binary version.
func (c *Config) ObservabilityConfig(version string) observability.Config {
	obs := observability.DefaultConfig()

	obs.ServiceName = c.Observability.ServiceName
	obs.ServiceVersion = version
	obs.Environment = c.Observability.Environment
	obs.OTLPEndpoint = c.Observability.OTLPEndpoint
	obs.OTLPHeaders = observability.ParseOTLPHeaders(c.Observability.OTLPHeaders)
	obs.OTLPInsecure = c.Observability.OTLPInsecure
	obs.DebugTrace = c.Observability.DebugTrace
	obs.Sampler = c.Observability.Sampler
	obs.SampleRatio = c.Observability.SampleRatio
	obs.ShutdownTimeoutSec = c.Observability.ShutdownTimeoutSec
	obs.PrometheusTextfile = c.Metrics.Textfile
	obs.LogJSON = c.Logging.Format == LogFormatJSON

	// Validated by LoadConfig.
	obs.LogLevel, _ = observability.ParseLevel(c.Logging.Level)

	return obs
}
