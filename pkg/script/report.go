package script

import (
	"time"

	"github.com/Sumatoshi-tech/ivindex/pkg/alg/interval"
	"github.com/Sumatoshi-tech/ivindex/pkg/alg/stats"
)

// Entry is an interval returned by a query.
type Entry = interval.Entry[float64, string]

// Result is the outcome of one operation.
type Result struct {
	// Step is the zero-based position of the operation in the script.
	Step      int
	Operation Operation

	// Entries holds intervals returned by range queries.
	Entries []Entry
	// Keys holds the low endpoints visited by a rank query.
	Keys []float64
	// Scalar holds the endpoint returned by percentile and max.
	Scalar *float64
	// Count holds the answer of size and count_at.
	Count *int
	// Found reports whether delete removed an interval or max had one.
	Found *bool

	Err      error
	Duration time.Duration
}

// Failed reports whether the operation returned an error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Returned is the number of entries or keys the operation produced.
func (r Result) Returned() int {
	return len(r.Entries) + len(r.Keys)
}

// Report is the outcome of a whole script run.
type Report struct {
	Name    string
	Results []Result

	// Size and LowCount describe the index after the last operation.
	Size     int
	LowCount int

	Elapsed time.Duration
}

// Failures counts the operations that returned an error.
func (r *Report) Failures() int {
	var n int

	for _, res := range r.Results {
		if res.Failed() {
			n++
		}
	}

	return n
}

// Latency summarises the per-operation durations of the run.
func (r *Report) Latency() stats.Summary {
	samples := make([]time.Duration, 0, len(r.Results))
	for _, res := range r.Results {
		samples = append(samples, res.Duration)
	}

	return stats.Summarize(samples)
}
