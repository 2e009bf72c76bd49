package observability

import (
	"context"
	"time"

	"github.com/annel0/terra-engine/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/annel0/terra-engine"

// InitTelemetry configures the OTLP/HTTP exporter and installs it as the
// global TracerProvider. It returns a shutdown function to call on process
// exit.
func InitTelemetry(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	exp, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	logging.LogInfo("telemetry: OTLP tracer provider installed (service=%s)", serviceName)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}
	return shutdown, nil
}

// Tracer returns the process-wide tracer the scheduler and hydrology
// subsystem open spans on. Safe to call before InitTelemetry — the global
// provider then defaults to a no-op implementation.
func Tracer() otelTrace.Tracer {
	return otel.Tracer(tracerName)
}
