package tracing

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"

	"github.com/platformbuilds/mirador-console/internal/config"
)

// ServiceName is the instrumentation and resource name of the console.
const ServiceName = "mirador-console"

// TracerProvider manages the lifecycle of the OpenTelemetry tracer. A
// provider built without an endpoint exports nothing.
type TracerProvider struct {
	tp *sdktrace.TracerProvider
}

// ConsoleTracer starts the spans of the console operations.
type ConsoleTracer struct {
	name string
}

// NewTracerProvider installs an OTLP/gRPC exporting provider as the global
// one. With an empty endpoint the global no-op provider stays in place.
func NewTracerProvider(cfg config.TracingConfig, serviceVersion string) (*TracerProvider, error) {
	if cfg.Endpoint == "" {
		return &TracerProvider{}, nil
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithDialOption(grpc.WithUserAgent(ServiceName + "/" + serviceVersion)),
	}
	if strings.Contains(cfg.Endpoint, "://") {
		opts = append(opts, otlptracegrpc.WithEndpointURL(cfg.Endpoint))
	} else {
		opts = append(opts, otlptracegrpc.WithEndpoint(cfg.Endpoint))
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(ServiceName),
			semconv.ServiceVersionKey.String(serviceVersion),
			semconv.ServiceNamespaceKey.String("mirador"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)
	otel.SetTracerProvider(tp)

	return &TracerProvider{tp: tp}, nil
}

// Enabled reports whether spans are exported.
func (tp *TracerProvider) Enabled() bool {
	return tp != nil && tp.tp != nil
}

// Shutdown flushes pending spans and stops the exporter.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if !tp.Enabled() {
		return nil
	}
	return tp.tp.Shutdown(ctx)
}

func NewConsoleTracer(name string) *ConsoleTracer {
	return &ConsoleTracer{name: name}
}

// tracer is looked up on every span so a provider installed after start-up
// is picked up.
func (ct *ConsoleTracer) tracer() trace.Tracer {
	return otel.Tracer(ct.name)
}

// StartWidgetValidationSpan starts a span for the validation of a widget form.
func (ct *ConsoleTracer) StartWidgetValidationSpan(ctx context.Context, widgetType string, strict bool) (context.Context, trace.Span) {
	return ct.tracer().Start(ctx, "widget_form_validation",
		trace.WithAttributes(
			attribute.String("widget.type", widgetType),
			attribute.Bool("widget.strict", strict),
			attribute.String("component", "widget-forms"),
		),
	)
}

// StartTimePeriodSpan starts a span for the validation of a time period.
func (ct *ConsoleTracer) StartTimePeriodSpan(ctx context.Context, dataSource string, dateOnly bool) (context.Context, trace.Span) {
	return ct.tracer().Start(ctx, "time_period_validation",
		trace.WithAttributes(
			attribute.String("time_period.data_source", dataSource),
			attribute.Bool("time_period.date_only", dateOnly),
			attribute.String("component", "widget-forms"),
		),
	)
}

// StartTokenUpdateSpan starts a span for an API token update.
func (ct *ConsoleTracer) StartTokenUpdateSpan(ctx context.Context, tokenID string, regenerate bool) (context.Context, trace.Span) {
	return ct.tracer().Start(ctx, "token_update",
		trace.WithAttributes(
			attribute.String("token.id", tokenID),
			attribute.Bool("token.regenerate", regenerate),
			attribute.String("component", "api-tokens"),
		),
	)
}

// StartCorrelationActionSpan starts a span for an event correlation mass
// action.
func (ct *ConsoleTracer) StartCorrelationActionSpan(ctx context.Context, action string, count int) (context.Context, trace.Span) {
	return ct.tracer().Start(ctx, "correlation_mass_action",
		trace.WithAttributes(
			attribute.String("correlation.action", action),
			attribute.Int("correlation.count", count),
			attribute.String("component", "event-correlation"),
		),
	)
}

// RecordValidation records the number of validation errors on a span.
func (ct *ConsoleTracer) RecordValidation(span trace.Span, errCount int) {
	span.SetAttributes(
		attribute.Int("validation.errors", errCount),
		attribute.Bool("validation.success", errCount == 0),
	)
	if errCount > 0 {
		span.SetStatus(codes.Error, "validation failed")
	}
}

// RecordError records an error on a span.
func (ct *ConsoleTracer) RecordError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attrs...)
	span.RecordError(err)
}

var globalTracer = NewConsoleTracer(ServiceName)

// GetGlobalTracer returns the tracer shared by handlers and services.
func GetGlobalTracer() *ConsoleTracer {
	return globalTracer
}
