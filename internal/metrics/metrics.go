// Package metrics wires the OpenTelemetry meter provider and the HTTP request
// instruments recorded by the server middleware.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdk "go.opentelemetry.io/otel/sdk/metric"
)

type Config struct {
	Enabled bool `conf:"enabled" yaml:"enabled" json:"enabled"`

	// Exporter is one of stdout, otlp-http.
	Exporter string        `conf:"exporter" yaml:"exporter" json:"exporter"`
	Endpoint string        `conf:"endpoint" yaml:"endpoint" json:"endpoint"`
	Interval time.Duration `conf:"interval" yaml:"interval" json:"interval"`
}

// NewProvider builds the meter provider, or nil when metrics are disabled.
func NewProvider(cfg Config) *sdk.MeterProvider {
	if !cfg.Enabled {
		return nil
	}

	interval := cfg.Interval
	if interval == 0 {
		interval = time.Minute
	}

	var (
		exporter sdk.Exporter
		err      error
	)

	switch cfg.Exporter {
	case "otlp-http":
		opts := []otlpmetrichttp.Option{}
		if cfg.Endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(cfg.Endpoint))
		}

		exporter, err = otlpmetrichttp.New(context.Background(), opts...)
	default:
		exporter, err = stdoutmetric.New()
	}

	if err != nil {
		panic(fmt.Errorf("failed to create metric exporter: %w", err))
	}

	return sdk.NewMeterProvider(
		sdk.WithReader(sdk.NewPeriodicReader(exporter, sdk.WithInterval(interval))),
	)
}

var (
	requestCounter  metric.Int64Counter
	requestDuration metric.Float64Histogram
)

// SetupMetrics installs the provider globally and creates the HTTP request
// instruments. Call once at startup.
func SetupMetrics(provider *sdk.MeterProvider, serviceName string) error {
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	var err error

	requestCounter, err = meter.Int64Counter(
		"http.server.requests",
		metric.WithDescription("Count of handled HTTP requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create request counter: %w", err)
	}

	requestDuration, err = meter.Float64Histogram(
		"http.server.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create request duration histogram: %w", err)
	}

	return nil
}

// RecordRequest records one handled request. Safe to call before SetupMetrics;
// it is a no-op until the instruments exist.
func RecordRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	if requestCounter == nil || requestDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)

	requestCounter.Add(ctx, 1, attrs)
	requestDuration.Record(ctx, elapsed.Seconds(), attrs)
}
