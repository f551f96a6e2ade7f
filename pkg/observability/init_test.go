package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/ivindex/pkg/observability"
)

func TestInit_NoopWhenNoEndpoint(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Logger)
	assert.NotNil(t, providers.Shutdown)

	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_NoopSpanIsValid(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	ctx, span := providers.Tracer.Start(context.Background(), "ivindex.op")
	defer span.End()

	assert.NotNil(t, ctx)
	assert.False(t, span.SpanContext().IsValid())
}

func TestInit_LoggerWritesToConfiguredOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogJSON = true
	cfg.LogOutput = &buf
	cfg.Environment = "test"

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	providers.Logger.InfoContext(context.Background(), "script loaded", "ops", 3)

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "script loaded", record["msg"])
	assert.Equal(t, "ivindex", record["service"])
	assert.Equal(t, "cli", record["mode"])
	assert.Equal(t, "test", record["env"])
}

func TestInit_LogLevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogOutput = &buf

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	providers.Logger.Debug("hidden")
	assert.Empty(t, buf.String())

	providers.Logger.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestInit_ShutdownIdempotent(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, providers.Shutdown(context.Background()))
	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_WriteMetricsWithoutTextfile(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	require.ErrorIs(t, providers.WriteMetrics(), observability.ErrNoTextfile)
}

func TestInit_PrometheusTextfile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ivindex.prom")

	cfg := observability.DefaultConfig()
	cfg.PrometheusTextfile = path
	cfg.LogOutput = &bytes.Buffer{}

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	red, err := observability.NewREDMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	red.RecordOp(ctx, "insert", observability.StatusOK, time.Microsecond, 0)
	red.RecordShape(ctx, 5, 4)

	require.NoError(t, providers.WriteMetrics())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "ivindex_ops_total")
	assert.Contains(t, text, "ivindex_index_entries")
	assert.Contains(t, text, `op="insert"`)
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{"empty", "", nil},
		{"single", "key=value", map[string]string{"key": "value"}},
		{"multiple", "k1=v1,k2=v2", map[string]string{"k1": "v1", "k2": "v2"}},
		{"spaces", " k1 = v1 , k2 = v2 ", map[string]string{"k1": "v1", "k2": "v2"}},
		{"no_equals", "invalid", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, observability.ParseOTLPHeaders(tt.input))
		})
	}
}

func TestBuildResource_IncludesAppMode(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()
	cfg.Mode = observability.ModeLibrary

	res, err := observability.ResourceFor(cfg)
	require.NoError(t, err)

	var mode string

	for _, attr := range res.Attributes() {
		if string(attr.Key) == "app.mode" {
			mode = attr.Value.AsString()
		}
	}

	assert.Equal(t, "library", mode)
}

func TestSampler_AlwaysOn(t *testing.T) {
	t.Setenv("OTEL_TRACES_SAMPLER", "always_on")

	assert.True(t, observability.RootSpanSampled(observability.DefaultConfig()))
}

func TestSampler_AlwaysOff(t *testing.T) {
	t.Setenv("OTEL_TRACES_SAMPLER", "always_off")

	assert.False(t, observability.RootSpanSampled(observability.DefaultConfig()))
}

func TestSampler_TraceIDRatio(t *testing.T) {
	t.Setenv("OTEL_TRACES_SAMPLER", "traceidratio")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "1.0")

	assert.True(t, observability.RootSpanSampled(observability.DefaultConfig()))
}

func TestSampler_ParentBasedAlwaysOff(t *testing.T) {
	t.Setenv("OTEL_TRACES_SAMPLER", "parentbased_always_off")

	assert.False(t, observability.RootSpanSampled(observability.DefaultConfig()))
}

func TestSampler_DebugTraceOverridesEnv(t *testing.T) {
	t.Setenv("OTEL_TRACES_SAMPLER", "always_off")

	cfg := observability.DefaultConfig()
	cfg.DebugTrace = true

	assert.True(t, observability.RootSpanSampled(cfg))
}

func TestSampler_ConfigSampleRatio(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()
	cfg.SampleRatio = 1.0

	assert.True(t, observability.RootSpanSampled(cfg))
}

func TestSampler_ConfigName(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()
	cfg.Sampler = observability.SamplerAlwaysOff

	assert.False(t, observability.RootSpanSampled(cfg))

	cfg.Sampler = observability.SamplerTraceIDRatio
	assert.True(t, observability.RootSpanSampled(cfg), "zero ratio means sample everything")
}

func TestSampler_EnvOverridesConfig(t *testing.T) {
	t.Setenv("OTEL_TRACES_SAMPLER", "always_on")

	cfg := observability.DefaultConfig()
	cfg.Sampler = observability.SamplerAlwaysOff

	assert.True(t, observability.RootSpanSampled(cfg))
}

func TestSampler_EnvArgOverridesRatio(t *testing.T) {
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0")

	cfg := observability.DefaultConfig()
	cfg.Sampler = observability.SamplerTraceIDRatio
	cfg.SampleRatio = 1

	assert.False(t, observability.RootSpanSampled(cfg))
}

func TestIsSampler(t *testing.T) {
	t.Parallel()

	assert.True(t, observability.IsSampler(""))
	assert.True(t, observability.IsSampler(observability.SamplerParentBasedTraceIDRatio))
	assert.False(t, observability.IsSampler("sometimes"))
}

func TestSampler_DefaultSamples(t *testing.T) {
	t.Parallel()

	assert.True(t, observability.RootSpanSampled(observability.DefaultConfig()))
}
