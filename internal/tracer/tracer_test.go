package tracer

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/BruksfildServices01/care-scheduler/internal/config"
)

func TestInit_Disabled(t *testing.T) {
	tp, err := Init(config.TracingConfig{Enabled: false})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := otel.Tracer(InstrumentationName).Start(context.Background(), "noop")
	span.End()
}

func TestInit_Enabled(t *testing.T) {
	tp, err := Init(config.TracingConfig{
		Enabled:     true,
		Endpoint:    "localhost:4318",
		ServiceName: "care-scheduler-test",
		SampleRate:  1,
	})
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	_, span := otel.Tracer(InstrumentationName).Start(context.Background(), "sampled")
	if !span.SpanContext().IsSampled() {
		t.Error("sample rate 1 must sample every root span")
	}
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	_ = tp.Shutdown(ctx)
}
