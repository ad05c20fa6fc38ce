// Package trace exports spans for app operations (grid mutations, API calls)
// to an OTLP/HTTP endpoint. Tracing is off unless an endpoint is configured;
// a nil *Tracer is a valid no-op so call sites never branch.
package trace

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// EndpointEnv overrides the configured endpoint, matching the OTLP convention.
const EndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"

// Tracer wraps an OTLP tracer provider.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
}

// New creates a tracer exporting to the given endpoint (host:port).
// OTEL_EXPORTER_OTLP_ENDPOINT takes precedence when set. An empty endpoint
// returns (nil, nil): tracing disabled.
func New(ctx context.Context, endpoint string) (*Tracer, error) {
	if env := os.Getenv(EndpointEnv); env != "" {
		endpoint = env
	}
	if endpoint == "" {
		return nil, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "panedeck"
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return &Tracer{
		provider: provider,
		tracer:   provider.Tracer("panedeck"),
	}, nil
}

// Attr builds a namespaced string attribute.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String("panedeck."+key, value)
}

// Span starts a span. The returned end function records the error (if any)
// and finishes the span; it is safe to call on a nil tracer.
func (t *Tracer) Span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(err error)) {
	if t == nil {
		return ctx, func(error) {}
	}
	ctx, span := t.tracer.Start(ctx, name)
	span.SetAttributes(attrs...)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// Shutdown flushes pending spans and closes the exporter.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
