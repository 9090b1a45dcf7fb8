package observability

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.ServiceName != "webframe" {
		t.Errorf("expected ServiceName 'webframe', got %s", cfg.ServiceName)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.MetricInterval != 15*time.Second {
		t.Errorf("expected MetricInterval 15s, got %v", cfg.MetricInterval)
	}
	if cfg.Enabled() {
		t.Error("expected export to be disabled without an endpoint")
	}
}

func TestInitDisabled(t *testing.T) {
	before := otel.GetTracerProvider()

	p, err := Init(context.Background(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Tracer != nil || p.Meter != nil {
		t.Error("expected no providers when disabled")
	}
	if otel.GetTracerProvider() != before {
		t.Error("global tracer provider should be untouched")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown of empty providers: %v", err)
	}
}

func TestInitEnabled(t *testing.T) {
	prevTP, prevMP, prevProp := otel.GetTracerProvider(), otel.GetMeterProvider(), otel.GetTextMapPropagator()
	defer func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
		otel.SetTextMapPropagator(prevProp)
	}()

	p, err := Init(context.Background(), Config{
		ServiceName: "webframe-test",
		Endpoint:    "127.0.0.1:1",
		Insecure:    true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Tracer == nil || p.Meter == nil {
		t.Fatal("expected both providers")
	}
	if otel.GetTracerProvider() != p.Tracer {
		t.Error("tracer provider was not installed globally")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	// nothing listens on the endpoint; only the call path matters here
	_ = p.Shutdown(ctx)
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, sdktrace.AlwaysSample().Description()},
		{2.0, sdktrace.AlwaysSample().Description()},
		{0, sdktrace.NeverSample().Description()},
		{0.25, sdktrace.TraceIDRatioBased(0.25).Description()},
	}
	for _, tt := range tests {
		if got := sampler(tt.rate).Description(); got != tt.want {
			t.Errorf("sampler(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestNewResource(t *testing.T) {
	cfg := Config{ServiceName: "svc", ServiceVersion: "1.2.3", Environment: "test"}
	res, err := newResource(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, kv := range res.Attributes() {
		if kv.Key == "service.name" && kv.Value.AsString() == "svc" {
			found = true
		}
	}
	if !found {
		t.Error("service.name attribute missing")
	}
}
