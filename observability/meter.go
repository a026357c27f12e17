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

	"github.com/kbukum/shield/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
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
		ServiceVersion: version.Get().String(),
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
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
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the metric instruments for resilience observability.
type Metrics struct {
	retryTotal         metric.Int64Counter
	retryWait          metric.Float64Histogram
	breakerTransitions metric.Int64Counter
	rateLimitWaits     metric.Int64Counter
	rateLimitWaitTime  metric.Float64Histogram
}

// NewMetrics creates the resilience instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	retryTotal, err := meter.Int64Counter("resilience.retry.total",
		metric.WithDescription("Total number of retry waits"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resilience.retry.total counter: %w", err)
	}

	retryWait, err := meter.Float64Histogram("resilience.retry.wait",
		metric.WithDescription("Backoff wait before each retry in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resilience.retry.wait histogram: %w", err)
	}

	breakerTransitions, err := meter.Int64Counter("resilience.breaker.transitions",
		metric.WithDescription("Circuit breaker state transitions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resilience.breaker.transitions counter: %w", err)
	}

	rateLimitWaits, err := meter.Int64Counter("resilience.ratelimit.waits",
		metric.WithDescription("Number of rate limit bucket waits"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resilience.ratelimit.waits counter: %w", err)
	}

	rateLimitWaitTime, err := meter.Float64Histogram("resilience.ratelimit.wait",
		metric.WithDescription("Rate limit wait before admission in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resilience.ratelimit.wait histogram: %w", err)
	}

	return &Metrics{
		retryTotal:         retryTotal,
		retryWait:          retryWait,
		breakerTransitions: breakerTransitions,
		rateLimitWaits:     rateLimitWaits,
		rateLimitWaitTime:  rateLimitWaitTime,
	}, nil
}

// RecordRetry records one retry wait for a dependency.
func (m *Metrics) RecordRetry(ctx context.Context, dependency string, attempt int, wait time.Duration) {
	m.retryTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("dependency", dependency),
		attribute.Int("attempt", attempt),
	))
	m.retryWait.Record(ctx, wait.Seconds(), metric.WithAttributes(
		attribute.String("dependency", dependency),
	))
}

// RecordBreakerTransition records a circuit breaker state change.
func (m *Metrics) RecordBreakerTransition(ctx context.Context, dependency, from, to string) {
	m.breakerTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("dependency", dependency),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// RecordRateLimitWait records a bucket-exhaustion wait.
func (m *Metrics) RecordRateLimitWait(ctx context.Context, dependency, bucket string, wait time.Duration) {
	m.rateLimitWaits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("dependency", dependency),
		attribute.String("bucket", bucket),
	))
	m.rateLimitWaitTime.Record(ctx, wait.Seconds(), metric.WithAttributes(
		attribute.String("dependency", dependency),
		attribute.String("bucket", bucket),
	))
}
