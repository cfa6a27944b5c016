package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/seedkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment.
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider should be shut down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Debug("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns the seedkit meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(InstrumentationName)
}

// Metric instrument names.
const (
	MetricRecordsLoaded = "fixtures.records.loaded"
	MetricFilesSkipped  = "fixtures.files.skipped"
	MetricPurgeErrors   = "fixtures.purge.errors"
	MetricRunDuration   = "fixtures.run.duration"
)

// FixtureMetrics holds the instruments recorded by fixture runs.
type FixtureMetrics struct {
	recordsLoaded metric.Int64Counter
	filesSkipped  metric.Int64Counter
	purgeErrors   metric.Int64Counter
	runDuration   metric.Float64Histogram
}

// NewFixtureMetrics creates metric instruments on the given meter.
func NewFixtureMetrics(meter metric.Meter) (*FixtureMetrics, error) {
	recordsLoaded, err := meter.Int64Counter(MetricRecordsLoaded,
		metric.WithDescription("Fixture records persisted, by backend and model"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRecordsLoaded, err)
	}

	filesSkipped, err := meter.Int64Counter(MetricFilesSkipped,
		metric.WithDescription("Fixture files skipped because they failed to parse"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricFilesSkipped, err)
	}

	purgeErrors, err := meter.Int64Counter(MetricPurgeErrors,
		metric.WithDescription("Purge failures, by backend and manager"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricPurgeErrors, err)
	}

	runDuration, err := meter.Float64Histogram(MetricRunDuration,
		metric.WithDescription("Duration of load and purge runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricRunDuration, err)
	}

	return &FixtureMetrics{
		recordsLoaded: recordsLoaded,
		filesSkipped:  filesSkipped,
		purgeErrors:   purgeErrors,
		runDuration:   runDuration,
	}, nil
}

// RecordLoaded counts one persisted fixture record.
func (m *FixtureMetrics) RecordLoaded(ctx context.Context, backend, model string) {
	if m == nil {
		return
	}
	m.recordsLoaded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("model", model),
	))
}

// RecordSkipped counts one fixture file skipped on a parse error.
func (m *FixtureMetrics) RecordSkipped(ctx context.Context) {
	if m == nil {
		return
	}
	m.filesSkipped.Add(ctx, 1)
}

// RecordPurgeError counts a failed purge step on one manager.
func (m *FixtureMetrics) RecordPurgeError(ctx context.Context, backend, manager string) {
	if m == nil {
		return
	}
	m.purgeErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("manager", manager),
	))
}

// RecordRun records the duration of a load or purge run.
func (m *FixtureMetrics) RecordRun(ctx context.Context, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}
