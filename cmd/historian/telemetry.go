package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/tailored-agentic-units/historian/observability"
)

// buildObserver assembles the manager's observer. Logging always goes through
// slog; with --telemetry, events additionally become OTel spans and counters
// exported to rotating files under logs/. The returned shutdown func flushes
// the exporters.
func buildObserver(ctx context.Context) (observability.Observer, func(), error) {
	slogObs := observability.NewSlogObserver(slog.Default())
	if !telemetry {
		return slogObs, func() {}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName("historian"),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create telemetry resource: %w", err)
	}

	logDir := "logs"
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create logs directory: %w", err)
	}

	traceExporter, err := stdouttrace.New(
		stdouttrace.WithWriter(&lumberjack.Logger{
			Filename:   filepath.Join(logDir, "historian_traces.log"),
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	metricExporter, err := stdoutmetric.New(
		stdoutmetric.WithWriter(&lumberjack.Logger{
			Filename:   filepath.Join(logDir, "historian_metrics.log"),
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
			sdkmetric.WithInterval(10*time.Second))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	otelObs, err := observability.NewOTelObserver(
		tp.Tracer("historian"),
		mp.Meter("historian"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create otel observer: %w", err)
	}

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			slog.Warn("trace provider shutdown failed", "error", err)
		}
		if err := mp.Shutdown(shutdownCtx); err != nil {
			slog.Warn("meter provider shutdown failed", "error", err)
		}
	}

	return observability.NewMultiObserver(slogObs, otelObs), shutdown, nil
}
