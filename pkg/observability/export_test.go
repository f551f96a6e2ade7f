package observability

import (
	"context"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// ResourceFor exposes buildResource to the external tests.
func ResourceFor(cfg Config) (*resource.Resource, error) {
	return buildResource(cfg)
}

// RootSpanSampled reports whether the sampler resolved from cfg records a
// span that has no parent.
func RootSpanSampled(cfg Config) bool {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(recorder),
		sdktrace.WithSampler(selectSampler(cfg)),
	)

	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("ivindex-test").Start(context.Background(), "root")
	span.End()

	return len(recorder.Ended()) > 0
}
