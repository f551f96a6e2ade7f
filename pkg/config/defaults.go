package config

import "github.com/Sumatoshi-tech/ivindex/pkg/observability"

// Index defaults.
const (
	DefaultAugmentation   = AugmentationIncremental
	DefaultLegacyCounter  = false
	DefaultRejectInverted = false
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = LogFormatText
)

// Observability defaults.
const (
	DefaultServiceName        = "ivindex"
	DefaultSampler            = observability.SamplerParentBasedTraceIDRatio
	DefaultSampleRatio        = 1.0
	DefaultShutdownTimeoutSec = 5
)

// Output defaults.
const (
	DefaultOutputFormat = OutputTable
	DefaultColor        = ColorAuto
)

// Accepted enumeration values.
const (
	AugmentationIncremental = "incremental"
	AugmentationFull        = "full"

	LogFormatText = "text"
	LogFormatJSON = "json"

	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)
