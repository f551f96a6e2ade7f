package render

import (
	"github.com/Sumatoshi-tech/ivindex/pkg/alg/stats"
	"github.com/Sumatoshi-tech/ivindex/pkg/script"
)

// document is the JSON and YAML shape of a report.
type document struct {
	Name       string           `json:"name"        yaml:"name"`
	Size       int              `json:"size"        yaml:"size"`
	LowCount   int              `json:"low_count"   yaml:"low_count"`
	Failures   int              `json:"failures"    yaml:"failures"`
	ElapsedNS  int64            `json:"elapsed_ns"  yaml:"elapsed_ns"`
	Latency    latencyDocument  `json:"latency"     yaml:"latency"`
	Operations []resultDocument `json:"operations"  yaml:"operations"`
}

type latencyDocument struct {
	MeanNS int64 `json:"mean_ns" yaml:"mean_ns"`
	P50NS  int64 `json:"p50_ns"  yaml:"p50_ns"`
	P95NS  int64 `json:"p95_ns"  yaml:"p95_ns"`
	MaxNS  int64 `json:"max_ns"  yaml:"max_ns"`
}

type resultDocument struct {
	Step       int             `json:"step"              yaml:"step"`
	Op         string          `json:"op"                yaml:"op"`
	Operation  string          `json:"operation"         yaml:"operation"`
	Entries    []entryDocument `json:"entries,omitempty" yaml:"entries,omitempty"`
	Keys       []float64       `json:"keys,omitempty"    yaml:"keys,omitempty"`
	Scalar     *float64        `json:"scalar,omitempty"  yaml:"scalar,omitempty"`
	Count      *int            `json:"count,omitempty"   yaml:"count,omitempty"`
	Found      *bool           `json:"found,omitempty"   yaml:"found,omitempty"`
	Error      string          `json:"error,omitempty"   yaml:"error,omitempty"`
	DurationNS int64           `json:"duration_ns"       yaml:"duration_ns"`
}

type entryDocument struct {
	Low   float64 `json:"low"   yaml:"low"`
	High  float64 `json:"high"  yaml:"high"`
	Value string  `json:"value" yaml:"value"`
}

// newDocument flattens a report for the structured encoders.
func newDocument(report *script.Report) document {
	doc := document{
		Name:       report.Name,
		Size:       report.Size,
		LowCount:   report.LowCount,
		Failures:   report.Failures(),
		ElapsedNS:  report.Elapsed.Nanoseconds(),
		Latency:    newLatencyDocument(report.Latency()),
		Operations: make([]resultDocument, 0, len(report.Results)),
	}

	for _, res := range report.Results {
		rd := resultDocument{
			Step:       res.Step,
			Op:         res.Operation.Op,
			Operation:  res.Operation.String(),
			Keys:       res.Keys,
			Scalar:     res.Scalar,
			Count:      res.Count,
			Found:      res.Found,
			DurationNS: res.Duration.Nanoseconds(),
		}

		if res.Err != nil {
			rd.Error = res.Err.Error()
		}

		for _, e := range res.Entries {
			rd.Entries = append(rd.Entries, entryDocument{Low: e.Low, High: e.High, Value: e.Value})
		}

		doc.Operations = append(doc.Operations, rd)
	}

	return doc
}

// newLatencyDocument converts a summary to nanoseconds.
func newLatencyDocument(lat stats.Summary) latencyDocument {
	return latencyDocument{
		MeanNS: lat.Mean.Nanoseconds(),
		P50NS:  lat.P50.Nanoseconds(),
		P95NS:  lat.P95.Nanoseconds(),
		MaxNS:  lat.Max.Nanoseconds(),
	}
}
