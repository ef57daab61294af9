package otel

import (
	"context"
	"fmt"

	config "github.com/coffeeshop/backend/server/config"
	otel "go.opentelemetry.io/otel"
	attribute "go.opentelemetry.io/otel/attribute"
	prometheus "go.opentelemetry.io/otel/exporters/prometheus"
	metric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	resource "go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	zap "go.uber.org/zap"
)

const (
	serviceName    = "coffeeshop-api"
	serviceVersion = "1.0.0"
)

// OpenTelemetry defines the operations for telemetry
type OpenTelemetry interface {
	RecordRequestCount(ctx context.Context, method, path string)
	RecordResponseStatus(ctx context.Context, method, path string, statusCode int)
	RecordRequestDuration(ctx context.Context, method, path string, durationMs float64)
	RecordDrinkCreated(ctx context.Context)
	RecordDrinkDeleted(ctx context.Context)

	// Shutdown the telemetry system
	ShutDown(ctx context.Context) error
}

type OpenTelemetryImpl struct {
	logger        *zap.Logger
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter

	// Metrics
	requestCounter           metric.Int64Counter
	responseStatusCounter    metric.Int64Counter
	requestDurationHistogram metric.Float64Histogram
	drinksCreatedCounter     metric.Int64Counter
	drinksDeletedCounter     metric.Int64Counter
}

// NewOpenTelemetry creates a new OpenTelemetry implementation with proper dependency injection
func NewOpenTelemetry(cfg *config.Config, logger *zap.Logger) (OpenTelemetry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	o := &OpenTelemetryImpl{
		logger: logger,
	}

	if err := o.initialize(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize opentelemetry: %w", err)
	}

	return o, nil
}

func (o *OpenTelemetryImpl) initialize(cfg *config.Config) error {
	o.logger.Info("initializing opentelemetry",
		zap.String("service", serviceName),
		zap.String("environment", cfg.Environment))

	exporter, err := prometheus.New()
	if err != nil {
		o.logger.Error("failed to create prometheus exporter", zap.Error(err))
		return err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	)

	histogramBoundaries := []float64{1, 5, 10, 25, 50, 75, 100, 250, 500, 750, 1000, 2500, 5000, 7500, 10000}

	latencyView := sdkmetric.NewView(
		sdkmetric.Instrument{
			Kind: sdkmetric.InstrumentKindHistogram,
		},
		sdkmetric.Stream{
			Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
				Boundaries: histogramBoundaries,
			},
		},
	)

	o.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
		sdkmetric.WithView(latencyView),
	)
	otel.SetMeterProvider(o.meterProvider)

	o.meter = o.meterProvider.Meter(serviceName)

	if err := o.initializeMetrics(); err != nil {
		o.logger.Error("failed to initialize metrics", zap.Error(err))
		return err
	}

	o.logger.Info("opentelemetry initialized successfully")
	return nil
}

func (o *OpenTelemetryImpl) RecordRequestCount(ctx context.Context, method, path string) {
	attributes := []attribute.KeyValue{
		attribute.String("request_method", method),
		attribute.String("request_path", path),
	}

	o.requestCounter.Add(ctx, 1, metric.WithAttributes(attributes...))
}

func (o *OpenTelemetryImpl) RecordResponseStatus(ctx context.Context, method, path string, statusCode int) {
	attributes := []attribute.KeyValue{
		attribute.String("request_method", method),
		attribute.String("request_path", path),
		attribute.Int("status_code", statusCode),
	}

	o.responseStatusCounter.Add(ctx, 1, metric.WithAttributes(attributes...))
}

func (o *OpenTelemetryImpl) RecordRequestDuration(ctx context.Context, method, path string, durationMs float64) {
	attributes := []attribute.KeyValue{
		attribute.String("request_method", method),
		attribute.String("request_path", path),
	}

	o.requestDurationHistogram.Record(ctx, durationMs, metric.WithAttributes(attributes...))
}

func (o *OpenTelemetryImpl) RecordDrinkCreated(ctx context.Context) {
	o.drinksCreatedCounter.Add(ctx, 1)
}

func (o *OpenTelemetryImpl) RecordDrinkDeleted(ctx context.Context) {
	o.drinksDeletedCounter.Add(ctx, 1)
}

func (o *OpenTelemetryImpl) ShutDown(ctx context.Context) error {
	return o.meterProvider.Shutdown(ctx)
}

// initializeMetrics initializes all the OpenTelemetry metrics
func (o *OpenTelemetryImpl) initializeMetrics() error {
	var err error

	o.requestCounter, err = o.meter.Int64Counter(
		"coffeeshop.requests.total",
		metric.WithDescription("Total number of API requests processed"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create request counter: %w", err)
	}

	o.responseStatusCounter, err = o.meter.Int64Counter(
		"coffeeshop.response_status.total",
		metric.WithDescription("Total number of responses by status code"),
		metric.WithUnit("{response}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create response status counter: %w", err)
	}

	o.requestDurationHistogram, err = o.meter.Float64Histogram(
		"coffeeshop.request_duration",
		metric.WithDescription("Duration of API request processing"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return fmt.Errorf("failed to create request duration histogram: %w", err)
	}

	o.drinksCreatedCounter, err = o.meter.Int64Counter(
		"coffeeshop.drinks_created.total",
		metric.WithDescription("Total number of drinks added to the menu"),
		metric.WithUnit("{drink}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create drinks created counter: %w", err)
	}

	o.drinksDeletedCounter, err = o.meter.Int64Counter(
		"coffeeshop.drinks_deleted.total",
		metric.WithDescription("Total number of drinks removed from the menu"),
		metric.WithUnit("{drink}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create drinks deleted counter: %w", err)
	}

	o.logger.Debug("all opentelemetry metrics initialized successfully")
	return nil
}
