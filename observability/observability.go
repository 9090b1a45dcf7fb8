package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/kbukum/webframe/logger"
	"github.com/kbukum/webframe/version"
)

// Config configures OTLP export.
type Config struct {
	// ServiceName is the name of the service.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Environment is the deployment environment (dev, staging, prod).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	// Empty disables export.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows plain HTTP to the collector.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	// MetricInterval is the metric export interval.
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "webframe"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = version.Version
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval <= 0 {
		c.MetricInterval = 15 * time.Second
	}
}

// Enabled reports whether an export endpoint is configured.
func (c *Config) Enabled() bool {
	return c.Endpoint != ""
}

// Providers holds the SDK providers created by Init.
type Providers struct {
	Tracer *sdktrace.TracerProvider
	Meter  *sdkmetric.MeterProvider
}

// Shutdown flushes and stops both providers. It is a no-op when export is disabled.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	if p.Meter != nil {
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// Init creates OTLP/HTTP trace and metric exporters and installs the
// resulting providers and the W3C propagators as otel globals.
// With no endpoint configured it returns empty Providers and touches nothing.
func Init(ctx context.Context, cfg Config) (*Providers, error) {
	cfg.ApplyDefaults()
	if !cfg.Enabled() {
		return &Providers{}, nil
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	traceOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	metricOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}

	traceExporter, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	metricExporter, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
			sdkmetric.WithInterval(cfg.MetricInterval))),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("telemetry export enabled", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"sample_rate", cfg.SampleRate,
	))

	return &Providers{Tracer: tp, Meter: mp}, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// newResource builds a schemaless attribute set so it merges with the SDK
// defaults regardless of their semconv version.
func newResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("environment", cfg.Environment),
		),
	)
}
