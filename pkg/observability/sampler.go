package observability

import (
	"os"
	"slices"
	"strconv"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Standard OTel variables that override Config.Sampler and Config.SampleRatio.
const (
	envTracesSampler    = "OTEL_TRACES_SAMPLER"
	envTracesSamplerArg = "OTEL_TRACES_SAMPLER_ARG"
)

// Sampler names accepted by Config.Sampler and OTEL_TRACES_SAMPLER.
const (
	SamplerAlwaysOn                = "always_on"
	SamplerAlwaysOff               = "always_off"
	SamplerTraceIDRatio            = "traceidratio"
	SamplerParentBasedAlwaysOn     = "parentbased_always_on"
	SamplerParentBasedAlwaysOff    = "parentbased_always_off"
	SamplerParentBasedTraceIDRatio = "parentbased_traceidratio"
)

var samplerNames = []string{
	SamplerAlwaysOn,
	SamplerAlwaysOff,
	SamplerTraceIDRatio,
	SamplerParentBasedAlwaysOn,
	SamplerParentBasedAlwaysOff,
	SamplerParentBasedTraceIDRatio,
}

// IsSampler reports whether name can be used as Config.Sampler. The empty
// name selects SamplerParentBasedTraceIDRatio.
func IsSampler(name string) bool {
	return name == "" || slices.Contains(samplerNames, name)
}

// selectSampler resolves the trace sampler. DebugTrace records every span.
// Otherwise OTEL_TRACES_SAMPLER replaces Config.Sampler and
// OTEL_TRACES_SAMPLER_ARG replaces Config.SampleRatio.
func selectSampler(cfg Config) sdktrace.Sampler {
	if cfg.DebugTrace {
		return sdktrace.AlwaysSample()
	}

	name := cfg.Sampler
	if env := os.Getenv(envTracesSampler); env != "" {
		name = env
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 {
		ratio = 1
	}

	if arg := os.Getenv(envTracesSamplerArg); arg != "" {
		ratio = parseRatio(arg, ratio)
	}

	return namedSampler(name, ratio)
}

// namedSampler builds the sampler called name. Unknown names fall back to
// the parent-based ratio sampler.
func namedSampler(name string, ratio float64) sdktrace.Sampler {
	switch name {
	case SamplerAlwaysOn:
		return sdktrace.AlwaysSample()
	case SamplerAlwaysOff:
		return sdktrace.NeverSample()
	case SamplerTraceIDRatio:
		return sdktrace.TraceIDRatioBased(ratio)
	case SamplerParentBasedAlwaysOn:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case SamplerParentBasedAlwaysOff:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// parseRatio parses a sampler argument, keeping fallback when it is not a
// number.
func parseRatio(s string, fallback float64) float64 {
	ratio, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}

	return ratio
}
