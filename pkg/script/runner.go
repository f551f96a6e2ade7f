package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/ivindex/pkg/alg/interval"
	"github.com/Sumatoshi-tech/ivindex/pkg/observability"
)

const (
	spanRun = "ivindex.script.run"
	spanOp  = "ivindex.script.op"
)

// ErrSeed is returned when an interval in the intervals section is rejected.
var ErrSeed = errors.New("seed interval rejected")

// RunnerOptions configures a Runner. Zero values are usable: string
// payloads are ordered with strings.Compare, logs are discarded, spans are
// no-ops and metrics are skipped.
type RunnerOptions struct {
	Index   interval.Options[string]
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.REDMetrics

	// VerifyEach checks every index invariant after each mutating
	// operation and records a violation as that operation's error.
	VerifyEach bool
}

// Runner executes scripts.
type Runner struct {
	opts RunnerOptions
}

// NewRunner creates a Runner.
func NewRunner(opts RunnerOptions) *Runner {
	if opts.Index.CompareValues == nil {
		opts.Index.CompareValues = strings.Compare
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if opts.Tracer == nil {
		opts.Tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	return &Runner{opts: opts}
}

// Run seeds a fresh index with the script's intervals and executes its
// operations in order. Operation errors are kept on their Result and the
// run continues. A rejected seed interval or a cancelled context stops the
// run; the partial report is returned with the error.
func (r *Runner) Run(ctx context.Context, s *Script) (*Report, error) {
	start := time.Now()

	ctx, span := r.opts.Tracer.Start(ctx, spanRun, trace.WithAttributes(
		attribute.String("script.name", s.Name),
		attribute.Int("script.intervals", len(s.Intervals)),
		attribute.Int("script.operations", len(s.Operations)),
		attribute.String("index.augmentation", r.opts.Index.Augment.String()),
	))
	defer span.End()

	ix := interval.NewWithOptions[float64](r.opts.Index)
	report := &Report{Name: s.Name, Results: make([]Result, 0, len(s.Operations))}

	finish := func(err error) (*Report, error) {
		report.Size = ix.Len()
		report.LowCount = ix.LowCount()
		report.Elapsed = time.Since(start)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		return report, err
	}

	for i, iv := range s.Intervals {
		err := ix.Insert(iv.Low, iv.High, iv.Value)
		if err != nil {
			return finish(fmt.Errorf("%w: interval %d: %w", ErrSeed, i, err))
		}
	}

	r.recordShape(ctx, ix)
	r.opts.Logger.DebugContext(ctx, "index seeded", "script", s.Name, "intervals", ix.Len(), "lows", ix.LowCount())

	for i, op := range s.Operations {
		err := ctx.Err()
		if err != nil {
			return finish(fmt.Errorf("script %q stopped at step %d: %w", s.Name, i, err))
		}

		report.Results = append(report.Results, r.step(ctx, ix, i, op))
	}

	report, err := finish(nil)

	r.opts.Logger.InfoContext(ctx, "script finished",
		"script", s.Name,
		"operations", len(report.Results),
		"failures", report.Failures(),
		"size", report.Size,
		"elapsed", report.Elapsed,
	)

	return report, err
}

// step executes one operation inside its span and records its metrics.
func (r *Runner) step(ctx context.Context, ix *interval.Index[float64, string], i int, op Operation) Result {
	ctx, span := r.opts.Tracer.Start(ctx, spanOp, trace.WithAttributes(
		attribute.String("op.name", op.Op),
		attribute.Int("op.step", i),
	))
	defer span.End()

	start := time.Now()
	res := apply(ix, op)
	res.Step = i

	if r.opts.VerifyEach && mutates(op.Op) && res.Err == nil {
		res.Err = ix.Verify()
	}

	res.Duration = time.Since(start)

	status := observability.StatusOK
	if res.Err != nil {
		status = observability.StatusError

		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
	}

	span.SetAttributes(attribute.Int("op.results", res.Returned()))

	if r.opts.Metrics != nil {
		r.opts.Metrics.RecordOp(ctx, op.Op, status, res.Duration, res.Returned())
	}

	if mutates(op.Op) {
		r.recordShape(ctx, ix)
	}

	r.opts.Logger.DebugContext(ctx, "operation done",
		"step", i,
		"op", op.String(),
		"status", status,
		"returned", res.Returned(),
		"duration", res.Duration,
	)

	return res
}

// recordShape samples the index size gauges.
func (r *Runner) recordShape(ctx context.Context, ix *interval.Index[float64, string]) {
	if r.opts.Metrics != nil {
		r.opts.Metrics.RecordShape(ctx, ix.Len(), ix.LowCount())
	}
}

// mutates reports whether op can change the index.
func mutates(op string) bool {
	switch op {
	case OpInsert, OpDelete, OpDeleteValue, OpClear:
		return true
	default:
		return false
	}
}

// apply runs one operation against ix.
func apply(ix *interval.Index[float64, string], op Operation) Result {
	res := Result{Operation: op}

	switch op.Op {
	case OpInsert:
		res.Err = ix.Insert(op.Low, op.High, op.Value)
	case OpDelete:
		res.Found = ptr(ix.Delete(op.Low, op.High))
	case OpDeleteValue:
		res.Found = ptr(ix.DeleteValue(op.Low, op.High, op.Value))
	case OpClear:
		ix.Clear()
	case OpOverlap:
		res.Entries = ix.Overlapping(op.Low, op.High)
	case OpBetween:
		res.Entries = ix.Between(op.Low, op.High)
	case OpStrictlyBetween:
		res.Entries = ix.StrictlyBetween(op.Low, op.High)
	case OpContains:
		res.Entries = ix.ContainingPoint(op.Point)
	case OpLowest:
		res.Entries = ix.LowestLows(op.N)
	case OpHighest:
		res.Entries = ix.HighestLows(op.N)
	case OpAll:
		res.Entries = ix.All()
	case OpRank:
		res.Keys = ix.RankLows(op.N)
	case OpPercentile:
		low, err := ix.Percentile(op.P)
		if err == nil {
			res.Scalar = &low
		}

		res.Err = err
	case OpMax:
		high, ok := ix.GlobalMax()
		if ok {
			res.Scalar = &high
		}

		res.Found = &ok
	case OpSize:
		res.Count = ptr(ix.Len())
	case OpCountAt:
		res.Count = ptr(ix.CountAt(op.Low))
	case OpVerify:
		res.Err = ix.Verify()
	default:
		res.Err = fmt.Errorf("%w: %q", ErrUnknownOp, op.Op)
	}

	return res
}

// ptr returns a pointer to a copy of v.
func ptr[T any](v T) *T {
	return &v
}
