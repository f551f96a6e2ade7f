package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/ivindex/pkg/alg/interval"
	"github.com/Sumatoshi-tech/ivindex/pkg/config"
	"github.com/Sumatoshi-tech/ivindex/pkg/observability"
)

const (
	testSampleRatio = 0.25
	testTimeoutSec  = 12
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ivindex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultAugmentation, cfg.Index.Augmentation)
	assert.Equal(t, config.DefaultLegacyCounter, cfg.Index.LegacyCounter)
	assert.Equal(t, config.DefaultRejectInverted, cfg.Index.RejectInverted)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, config.DefaultLogFormat, cfg.Logging.Format)
	assert.Equal(t, config.DefaultServiceName, cfg.Observability.ServiceName)
	assert.InDelta(t, config.DefaultSampleRatio, cfg.Observability.SampleRatio, 0)
	assert.Equal(t, config.DefaultSampler, cfg.Observability.Sampler)
	assert.Equal(t, config.DefaultShutdownTimeoutSec, cfg.Observability.ShutdownTimeoutSec)
	assert.Empty(t, cfg.Observability.OTLPEndpoint)
	assert.Empty(t, cfg.Metrics.Textfile)
	assert.Equal(t, config.DefaultOutputFormat, cfg.Output.Format)
	assert.Equal(t, config.DefaultColor, cfg.Output.Color)
}

func TestLoadConfig_ShippedExample(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(filepath.Join("..", "..", "examples", "ivindex.yaml"))
	require.NoError(t, err)

	assert.Equal(t, config.AugmentationIncremental, cfg.Index.Augmentation)
	assert.Equal(t, "development", cfg.Observability.Environment)
	assert.Equal(t, config.OutputTable, cfg.Output.Format)
}

func TestLoadConfig_FromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
index:
  augmentation: full
  legacy_counter: true
logging:
  level: debug
  format: json
observability:
  environment: staging
  otlp_endpoint: localhost:4317
  otlp_headers: "x-token=abc"
  otlp_insecure: true
  sample_ratio: 0.25
  shutdown_timeout_sec: 12
metrics:
  textfile: /tmp/ivindex.prom
output:
  format: yaml
  color: never
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, config.AugmentationFull, cfg.Index.Augmentation)
	assert.True(t, cfg.Index.LegacyCounter)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, config.LogFormatJSON, cfg.Logging.Format)
	assert.Equal(t, "staging", cfg.Observability.Environment)
	assert.Equal(t, "localhost:4317", cfg.Observability.OTLPEndpoint)
	assert.True(t, cfg.Observability.OTLPInsecure)
	assert.InDelta(t, testSampleRatio, cfg.Observability.SampleRatio, 0)
	assert.Equal(t, testTimeoutSec, cfg.Observability.ShutdownTimeoutSec)
	assert.Equal(t, "/tmp/ivindex.prom", cfg.Metrics.Textfile)
	assert.Equal(t, config.OutputYAML, cfg.Output.Format)
	assert.Equal(t, config.ColorNever, cfg.Output.Color)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeConfig(t, "index:\n  augmentation: incremental\n")

	t.Setenv("IVINDEX_INDEX_AUGMENTATION", "full")
	t.Setenv("IVINDEX_OUTPUT_FORMAT", "json")
	t.Setenv("IVINDEX_METRICS_TEXTFILE", "/var/lib/node_exporter/ivindex.prom")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, config.AugmentationFull, cfg.Index.Augmentation)
	assert.Equal(t, config.OutputJSON, cfg.Output.Format)
	assert.Equal(t, "/var/lib/node_exporter/ivindex.prom", cfg.Metrics.Textfile)
}

func TestLoadConfig_PartialFile_MergesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "output:\n  format: json\n"))
	require.NoError(t, err)

	assert.Equal(t, config.OutputJSON, cfg.Output.Format)
	assert.Equal(t, config.DefaultColor, cfg.Output.Color)
	assert.Equal(t, config.DefaultAugmentation, cfg.Index.Augmentation)
}

func TestLoadConfig_ExplicitPath_NotFound_ReturnsError(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig("/nonexistent/path/ivindex.yaml")
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_MalformedYAML_ReturnsError(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "index: [unclosed\n"))
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"augmentation", "index:\n  augmentation: lazy\n", config.ErrInvalidAugmentation},
		{"level", "logging:\n  level: loud\n", config.ErrInvalidLogLevel},
		{"format", "logging:\n  format: xml\n", config.ErrInvalidLogFormat},
		{"ratio", "observability:\n  sample_ratio: 1.5\n", config.ErrInvalidSampleRatio},
		{"sampler", "observability:\n  sampler: sometimes\n", config.ErrInvalidSampler},
		{"timeout", "observability:\n  shutdown_timeout_sec: 0\n", config.ErrInvalidTimeout},
		{"output", "output:\n  format: csv\n", config.ErrInvalidOutput},
		{"color", "output:\n  color: rainbow\n", config.ErrInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, cfg)
		})
	}
}

func TestConfig_IndexOptions(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "index:\n  augmentation: full\n  legacy_counter: true\n  reject_inverted: true\n"))
	require.NoError(t, err)

	opts := cfg.IndexOptions()
	assert.Equal(t, interval.AugmentFull, opts.Augment)
	assert.True(t, opts.LegacyCounter)
	assert.True(t, opts.RejectInverted)
	require.NotNil(t, opts.CompareValues)
	assert.Negative(t, opts.CompareValues("a", "b"))

	cfg, err = config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, interval.AugmentIncremental, cfg.IndexOptions().Augment)
}

func TestConfig_ObservabilityConfig(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, `
logging:
  level: warn
  format: json
observability:
  otlp_endpoint: collector:4317
  otlp_headers: "a=1,b=2"
  sampler: always_off
metrics:
  textfile: out.prom
`))
	require.NoError(t, err)

	obs := cfg.ObservabilityConfig("1.2.3")
	assert.Equal(t, "ivindex", obs.ServiceName)
	assert.Equal(t, "1.2.3", obs.ServiceVersion)
	assert.Equal(t, "collector:4317", obs.OTLPEndpoint)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, obs.OTLPHeaders)
	assert.Equal(t, "out.prom", obs.PrometheusTextfile)
	assert.Equal(t, slog.LevelWarn, obs.LogLevel)
	assert.True(t, obs.LogJSON)
	assert.Equal(t, observability.SamplerAlwaysOff, obs.Sampler)
}
