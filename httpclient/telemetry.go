package httpclient

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/kbukum/webframe/httpclient"

// telemetry owns the tracer and instruments for one client.
type telemetry struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	requests   metric.Int64Counter
	duration   metric.Float64Histogram
}

func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) (*telemetry, error) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)

	requests, err := meter.Int64Counter("webframe.client.requests",
		metric.WithDescription("Number of HTTP requests dispatched"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("webframe.client.request.duration",
		metric.WithDescription("Duration of HTTP requests"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &telemetry{
		tracer:     tp.Tracer(instrumentationName),
		propagator: otel.GetTextMapPropagator(),
		requests:   requests,
		duration:   duration,
	}, nil
}

// start opens a client span and injects its context into headers.
func (t *telemetry) start(ctx context.Context, method, url, requestID string, headers http.Header) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, "HTTP "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", url),
			attribute.String("webframe.request_id", requestID),
		))
	t.propagator.Inject(ctx, propagation.HeaderCarrier(headers))
	return ctx, span
}

// end closes the span and records the request metrics.
func (t *telemetry) end(ctx context.Context, span trace.Span, method string, status int, elapsed time.Duration, err *RequestError) {
	attrs := []attribute.KeyValue{attribute.String("http.request.method", method)}
	if status > 0 {
		attrs = append(attrs, attribute.Int("http.response.status_code", status))
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		errType := err.Code.String()
		if status > 0 {
			errType = strconv.Itoa(status)
		}
		attrs = append(attrs, attribute.String("error.type", errType))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Message)
	}
	span.End()

	set := metric.WithAttributes(attrs...)
	t.requests.Add(ctx, 1, set)
	t.duration.Record(ctx, elapsed.Seconds(), set)
}
