// Package observability wires OpenTelemetry tracing and metrics export over
// OTLP/HTTP for webframe binaries.
//
//	p, err := observability.Init(ctx, observability.Config{
//	    ServiceName: "webframe",
//	    Endpoint:    "localhost:4318",
//	    Insecure:    true,
//	})
//	defer p.Shutdown(ctx)
//
// Init installs the providers as the otel globals, which is where
// httpclient picks them up when no explicit provider is given.
package observability
