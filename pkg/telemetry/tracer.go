package telemetry

import (
	"context"
	"fmt"
	"os"

	"github.com/openfroyo/slicecfg/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Tracer wraps the OpenTelemetry tracer with span helpers for slicecfg
// commands and profile operations.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	config   TracingConfig
}

// NewTracer creates a new tracer with the given configuration.
func NewTracer(cfg TracingConfig, serviceName, serviceVersion, environment string) (*Tracer, error) {
	if !cfg.Enabled {
		// Return a tracer with no-op provider
		return &Tracer{
			provider: sdktrace.NewTracerProvider(),
			tracer:   otel.Tracer(serviceName),
			config:   cfg,
		}, nil
	}

	// Create resource with service information
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
			attribute.String("environment", environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace resource: %w", err)
	}

	// Create exporter based on configuration
	var exporter sdktrace.SpanExporter
	switch cfg.Exporter {
	case "otlp":
		exporter, err = createOTLPExporter(cfg, serviceName+"/"+serviceVersion)
	case "stdout":
		exporter, err = createStdoutExporter(cfg)
	case "none":
		// No exporter - traces are generated but not exported
		exporter = nil
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.Exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	// Configure sampler
	sampler := sdktrace.ParentBased(
		sdktrace.TraceIDRatioBased(cfg.SamplingRate),
	)

	// Create trace provider
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	}

	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(
			exporter,
			sdktrace.WithMaxExportBatchSize(cfg.MaxExportBatchSize),
			sdktrace.WithExportTimeout(cfg.ExportTimeout),
		))
	}

	provider := sdktrace.NewTracerProvider(opts...)

	// Set global trace provider
	otel.SetTracerProvider(provider)

	// Set global propagator for context propagation
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	return &Tracer{
		provider: provider,
		tracer:   provider.Tracer(serviceName),
		config:   cfg,
	}, nil
}

// createOTLPExporter creates an OTLP gRPC exporter.
func createOTLPExporter(cfg TracingConfig, userAgent string) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}

	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
	}

	// Add custom headers if provided
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
	}

	// The exporter connects lazily so a missing collector never blocks
	// a command.
	opts = append(opts, otlptracegrpc.WithDialOption(
		grpc.WithUserAgent(userAgent),
	))

	return otlptracegrpc.New(context.Background(), opts...)
}

// createStdoutExporter creates a console exporter for debugging. Spans go to
// stderr so they never mix with command output.
func createStdoutExporter(cfg TracingConfig) (sdktrace.SpanExporter, error) {
	return stdouttrace.New(
		stdouttrace.WithWriter(os.Stderr),
		stdouttrace.WithPrettyPrint(),
	)
}

// StartSpan is a convenience method that starts a span with common attributes.
func (t *Tracer) StartSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, operation, trace.WithAttributes(attrs...))
}

// StartCommandSpan starts a span for a CLI command.
func (t *Tracer) StartCommandSpan(ctx context.Context, command string) (context.Context, trace.Span) {
	return t.StartSpan(ctx, "command."+command,
		AttrCommand.String(command),
		attribute.String("span.kind", "command"),
	)
}

// StartProfileSpan starts a span for an operation on a profile file or
// preset, such as "load", "save" or "validate".
func (t *Tracer) StartProfileSpan(ctx context.Context, operation, profile string) (context.Context, trace.Span) {
	return t.StartSpan(ctx, fmt.Sprintf("profile.%s", operation),
		AttrProfile.String(profile),
		AttrOperation.String(operation),
		attribute.String("span.kind", "profile"),
	)
}

// RecordError records an error on the current span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	if class, ok := config.ClassOf(err); ok {
		span.SetAttributes(AttrErrorClass.String(string(class)))
	}
	span.SetStatus(codes.Error, err.Error())
}

// RecordSuccess marks the span as successful.
func RecordSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// AddOptionEvent records an option write and its outcome on span.
func AddOptionEvent(span trace.Span, key string, err error) {
	attrs := []attribute.KeyValue{
		AttrOptionKey.String(key),
		AttrOptionAccepted.Bool(err == nil),
	}
	if class, ok := config.ClassOf(err); ok {
		attrs = append(attrs, AttrErrorClass.String(string(class)))
	}
	span.AddEvent("option.set", trace.WithAttributes(attrs...))
}

// SpanObserver records every option write as an event on a span.
type SpanObserver struct {
	span trace.Span
}

var _ config.Observer = (*SpanObserver)(nil)

// NewSpanObserver returns an observer for span.
func NewSpanObserver(span trace.Span) *SpanObserver {
	return &SpanObserver{span: span}
}

// ObserveWrite implements config.Observer.
func (o *SpanObserver) ObserveWrite(key string, err error) {
	AddOptionEvent(o.span, key, err)
}

// Shutdown gracefully shuts down the tracer, flushing any pending spans.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// ForceFlush forces all pending spans to be exported immediately.
func (t *Tracer) ForceFlush(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.ForceFlush(ctx)
}

// Common attribute keys for slicecfg tracing.
var (
	AttrCommand   = attribute.Key("command")
	AttrOperation = attribute.Key("operation")
	AttrProfile   = attribute.Key("profile")

	// Option attributes
	AttrOptionKey      = attribute.Key("option.key")
	AttrOptionAccepted = attribute.Key("option.accepted")

	// Error attributes
	AttrErrorClass = attribute.Key("error.class")
)
