package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/bridge/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Environment    string        `mapstructure:"environment"`
	Endpoint       string        `mapstructure:"endpoint"`
	Insecure       bool          `mapstructure:"insecure"`
	Interval       time.Duration `mapstructure:"interval"`
}

// DefaultMeterConfig returns defaults for local development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a global MeterProvider exporting over OTLP/HTTP.
// The caller owns Shutdown.
func InitMeter(ctx context.Context, config MeterConfig, log *logger.Logger) (*sdkmetric.MeterProvider, error) {
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

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	if log == nil {
		log = logger.Nop()
	}
	log.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric instrument names.
const (
	MetricResponses = "bridge.responses"
	MetricDuration  = "bridge.call.duration"
	MetricFailures  = "bridge.failures"
)

// Metrics holds the instruments recorded for bridge calls.
type Metrics struct {
	responses metric.Int64Counter
	duration  metric.Float64Histogram
	failures  metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	responses, err := meter.Int64Counter(MetricResponses,
		metric.WithDescription("Responses received, by endpoint and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricResponses, err)
	}

	duration, err := meter.Float64Histogram(MetricDuration,
		metric.WithDescription("Time from call creation to response in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricDuration, err)
	}

	failures, err := meter.Int64Counter(MetricFailures,
		metric.WithDescription("Failed calls by endpoint and error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricFailures, err)
	}

	return &Metrics{responses: responses, duration: duration, failures: failures}, nil
}

// RecordResponse counts one response and its latency.
func (m *Metrics) RecordResponse(ctx context.Context, endpoint, method string, status int, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(AttrEndpoint, endpoint),
		attribute.String(AttrMethod, method),
		attribute.String(AttrStatus, strconv.Itoa(status)),
	)
	m.responses.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordFailure counts a failed call. code is empty for transport errors.
func (m *Metrics) RecordFailure(ctx context.Context, endpoint, code string) {
	if code == "" {
		code = "TRANSPORT"
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrEndpoint, endpoint),
		attribute.String("bridge.error_code", code),
	))
}
