package uistate

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestServiceRecordsSpansAndStampsEvents(t *testing.T) {
	ctx := context.Background()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	f := newFixture(t, WithTracer(provider.Tracer("test")))
	c := NewController(ctx, f.svc, customersConfig())
	if err := c.SetFilters(ctx, Patch{"search": "acme"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	f.svc.ClearOtherNamespaces(ctx, Orders)

	spans := recorder.Ended()
	names := map[string]attribute.Value{}
	for _, span := range spans {
		for _, attr := range span.Attributes() {
			if attr.Key == "uistate.namespace" {
				names[span.Name()] = attr.Value
			}
		}
	}
	if names["uistate.Controller.Sync"].AsString() != "customers" {
		t.Fatalf("missing sync span, got %v", names)
	}
	if names["uistate.ClearOtherNamespaces"].AsString() != "orders" {
		t.Fatalf("missing invalidation span, got %v", names)
	}

	for _, event := range f.hook.Events() {
		if _, ok := event.Metadata["trace_id"].(string); !ok {
			t.Fatalf("event %s missing trace id: %v", event.Verb, event.Metadata)
		}
	}
}
