// Package otel wires OpenTelemetry tracing for the commands.
package otel

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Namespace groups every mindvsmachine process in the tracing backend.
const Namespace = "mindvsmachine"

// Resource attribute keys describing how a process was started.
const (
	StorageBackendKey = attribute.Key("mvm.storage.backend")
	SpecialNumberKey  = attribute.Key("mvm.special_number")
	SpecialMinuteKey  = attribute.Key("mvm.special_minute")
)

// Config controls span export. Tracing stays off until Endpoint is set.
type Config struct {
	Endpoint    string  `env:"OTEL_ENDPOINT"`
	Enabled     bool    `env:"OTEL_ENABLED" envDefault:"true"`
	SampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Active reports whether Setup will install a real provider.
func (c Config) Active() bool {
	return c.Enabled && strings.TrimSpace(c.Endpoint) != ""
}

// Service describes the process the spans come from.
type Service struct {
	Name       string
	Version    string
	Attributes []attribute.KeyValue
}

// Setup installs a batching OTLP/HTTP tracer provider for service. When cfg
// is not active it registers nothing and returns a no-op shutdown.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, cfg Config, service Service) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Active() {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(strings.TrimSpace(cfg.Endpoint)),
	)
	if err != nil {
		return noop, err
	}
	res, err := NewResource(ctx, service)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(Sampler(cfg.SampleRatio)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// NewResource names the process as "mindvsmachine-<service>" and attaches
// its version and startup attributes.
func NewResource(ctx context.Context, service Service) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(Namespace + "-" + service.Name),
		semconv.ServiceNamespace(Namespace),
	}
	if v := strings.TrimSpace(service.Version); v != "" {
		attrs = append(attrs, semconv.ServiceVersion(v))
	}
	attrs = append(attrs, service.Attributes...)
	return resource.New(ctx, resource.WithAttributes(attrs...))
}

// Sampler follows the parent's decision and samples new traces at ratio,
// clamped to [0, 1].
func Sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case ratio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}
