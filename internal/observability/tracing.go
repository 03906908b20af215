package observability

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	EnvOtelEnabled  = "ARPLACE_OTEL_ENABLED"
	EnvOtelEndpoint = "ARPLACE_OTEL_ENDPOINT"

	tracerName = "github.com/danmuck/arplace"
)

type tracingEnv struct {
	Enabled  bool   `env:"ARPLACE_OTEL_ENABLED" envDefault:"true"`
	Endpoint string `env:"ARPLACE_OTEL_ENDPOINT"`
}

// SetupTracing installs an OTLP/HTTP tracer provider.
//
// Tracing is opt-in: with ARPLACE_OTEL_ENDPOINT empty or
// ARPLACE_OTEL_ENABLED=false a no-op shutdown is returned and the global
// provider is left alone.
func SetupTracing(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	var cfg tracingEnv
	if err := env.Parse(&cfg); err != nil {
		return noop, fmt.Errorf("parse env: %w", err)
	}
	if !cfg.Enabled || cfg.Endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return noop, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}

// Tracer returns the module tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
