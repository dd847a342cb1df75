package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Ramsey-B/aster/pkg/tracing/exporters"
)

// ProviderConfig describes how spans leave the process.
type ProviderConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string

	// OTLP collector settings; see exporters.OTLPConfig.
	Endpoint string
	Protocol string
	Insecure bool
}

// InitProvider wires up an OTLP-backed tracer provider, registers it globally
// and points this package's tracer at it. The returned function flushes and
// shuts the provider down; call it on service exit.
func InitProvider(ctx context.Context, config ProviderConfig) (func(context.Context) error, error) {
	exporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
		Endpoint: config.Endpoint,
		Protocol: config.Protocol,
		Insecure: config.Insecure,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	attrs := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
		semconv.DeploymentEnvironment(config.Environment),
	)

	res, err := resource.Merge(resource.Default(), attrs)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	SetTracer(provider.Tracer(config.ServiceName))

	return provider.Shutdown, nil
}
