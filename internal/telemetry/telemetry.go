// Package telemetry sets up OpenTelemetry tracing for the simulation
// commands. Tracing is opt-in: with no endpoint configured every span goes
// to the global no-op provider.
package telemetry

import (
	"context"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	EnvEndpoint = "EMOJI_SIM_OTEL_ENDPOINT"
	EnvEnabled  = "EMOJI_SIM_OTEL_ENABLED"

	shutdownTimeout = 5 * time.Second
)

// Setup registers a tracer provider exporting to EMOJI_SIM_OTEL_ENDPOINT over
// OTLP/HTTP. It returns a no-op shutdown when the endpoint is empty or
// EMOJI_SIM_OTEL_ENABLED is "false". Callers defer the returned shutdown.
func Setup(ctx context.Context, service string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(os.Getenv(EnvEnabled), "false") {
		return noop, nil
	}
	endpoint := os.Getenv(EnvEndpoint)
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(service)))
	if err != nil {
		return noop, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// Shutdown calls shutdown with a bounded context and reports the error to
// logf, which is typically log.Printf.
func Shutdown(shutdown func(context.Context) error, logf func(string, ...any)) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logf("otel shutdown: %v", err)
	}
}
