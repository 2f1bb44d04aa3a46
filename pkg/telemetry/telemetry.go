// Package telemetry installs the OpenTelemetry tracer provider used by the
// planner and simulation spans.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceName is reported as service.name on every span.
const ServiceName = "flyin"

// ErrUnknownExporter is returned for an unsupported exporter name.
var ErrUnknownExporter = errors.New("unknown trace exporter")

// Config selects where spans go.
type Config struct {
	// Exporter is "stdout" or "none".
	Exporter string
	// Output receives stdout spans. Required for "stdout".
	Output io.Writer
	// Pretty indents the JSON spans.
	Pretty bool
	// Version is reported as service.version.
	Version string
}

// ShutdownFunc flushes pending spans and releases the provider.
type ShutdownFunc func(context.Context) error

// Setup installs a global tracer provider for cfg and returns its shutdown
// function. With Exporter "none" the global no-op provider stays in place.
func Setup(cfg Config) (ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }

	var exporter sdktrace.SpanExporter
	switch cfg.Exporter {
	case "", "none":
		return noop, nil
	case "stdout":
		if cfg.Output == nil {
			return nil, fmt.Errorf("stdout exporter: no output writer")
		}
		opts := []stdouttrace.Option{stdouttrace.WithWriter(cfg.Output)}
		if cfg.Pretty {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		var err error
		if exporter, err = stdouttrace.New(opts...); err != nil {
			return nil, fmt.Errorf("create exporter: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.Exporter)
	}

	attrs := []attribute.KeyValue{attribute.String("service.name", ServiceName)}
	if cfg.Version != "" {
		attrs = append(attrs, attribute.String("service.version", cfg.Version))
	}

	// Export each span as it ends; the process may exit right after a run.
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attrs...)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
