package observability

import (
	"context"
	"testing"
)

func TestSetupTracingDisabledReturnsNoop(t *testing.T) {
	t.Setenv(EnvOtelEndpoint, "http://127.0.0.1:4318")
	t.Setenv(EnvOtelEnabled, "false")

	shutdown, err := SetupTracing(context.Background(), "arplace-test")
	if err != nil {
		t.Fatalf("setup tracing: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}

func TestSetupTracingWithoutEndpointReturnsNoop(t *testing.T) {
	t.Setenv(EnvOtelEndpoint, "")

	shutdown, err := SetupTracing(context.Background(), "arplace-test")
	if err != nil {
		t.Fatalf("setup tracing: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
	_, span := Tracer().Start(context.Background(), "noop-span")
	span.End()
}

func TestSetupTracingRejectsBadEnabledFlag(t *testing.T) {
	t.Setenv(EnvOtelEndpoint, "http://127.0.0.1:4318")
	t.Setenv(EnvOtelEnabled, "sometimes")

	if _, err := SetupTracing(context.Background(), "arplace-test"); err == nil {
		t.Fatalf("expected env parse error")
	}
}
