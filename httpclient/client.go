package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/publicsuffix"

	"github.com/kbukum/webframe/logger"
	"github.com/kbukum/webframe/version"
)

// Client is a stateful HTTP client bound to a base URI.
//
// It owns a cookie-persisting session, the configured credentials and
// content type, and the last response received. A Client is not safe for
// concurrent use.
type Client struct {
	baseURI      string
	session      *resty.Client
	auth         authState
	contentType  ContentType
	lastResponse *Response
	log          *logger.Logger
	tel          *telemetry
}

// Option configures a Client at construction time.
type Option func(*options)

type options struct {
	log            *logger.Logger
	httpClient     *http.Client
	userAgent      string
	timeout        time.Duration
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithLogger sets the logger used for dispatch logging.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithHTTPClient replaces the underlying *http.Client.
// A cookie jar is installed when the client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithUserAgent overrides the default User-Agent.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithTracerProvider sets the tracer provider. Defaults to the otel global.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider. Defaults to the otel global.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// New creates a client for baseURI. The base is normalized and always ends
// with exactly one slash; an empty base becomes "/".
func New(baseURI string, opts ...Option) (*Client, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	base, err := NormalizeBaseURI(baseURI)
	if err != nil {
		return nil, err
	}

	log := o.log
	if log == nil {
		log = logger.Get("httpclient")
	}

	session, err := newSession(o, log)
	if err != nil {
		return nil, err
	}

	tel, err := newTelemetry(o.tracerProvider, o.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("httpclient: telemetry: %w", err)
	}

	return &Client{
		baseURI: base,
		session: session,
		log:     log,
		tel:     tel,
	}, nil
}

// NewFromConfig creates a client from cfg, applying its content type and
// credentials as if the matching setters had been called.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ct, err := ParseContentType(cfg.ContentType)
	if err != nil {
		return nil, err
	}

	all := make([]Option, 0, len(opts)+2)
	if cfg.UserAgent != "" {
		all = append(all, WithUserAgent(cfg.UserAgent))
	}
	if cfg.Timeout > 0 {
		all = append(all, func(o *options) { o.timeout = cfg.Timeout })
	}
	all = append(all, opts...)

	c, err := New(cfg.BaseURI, all...)
	if err != nil {
		return nil, err
	}
	c.useContentType(ct)

	a := cfg.Auth
	if a.Username != "" || a.Password != "" {
		c.SetBasicAuth(a.Username, a.Password)
	}
	if a.APIKey != "" {
		c.SetAPIKey(a.APIKey, a.APIKeyHeader)
	}
	if a.CSRFToken != "" {
		c.SetCSRFToken(a.CSRFToken)
	}
	return c, nil
}

func newSession(o *options, log *logger.Logger) (*resty.Client, error) {
	var session *resty.Client
	if o.httpClient != nil {
		session = resty.NewWithClient(o.httpClient)
	} else {
		session = resty.New()
	}
	if session.GetClient().Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("httpclient: cookie jar: %w", err)
		}
		session.SetCookieJar(jar)
	}

	ua := o.userAgent
	if ua == "" {
		ua = version.UserAgent()
	}
	session.SetHeader("User-Agent", ua)
	// Without an explicit Accept, resty mirrors the request Content-Type.
	session.SetHeader("Accept", "*/*")
	session.SetLogger(restyLogger{log: log})
	session.SetPreRequestHook(stripSniffedContentType)
	if o.timeout > 0 {
		session.SetTimeout(o.timeout)
	}
	return session, nil
}

type noContentTypeKey struct{}

// withoutContentType marks ctx so the outgoing request carries no
// Content-Type header.
func withoutContentType(ctx context.Context) context.Context {
	return context.WithValue(ctx, noContentTypeKey{}, true)
}

// stripSniffedContentType removes the Content-Type resty derives from a raw
// body when no content type was chosen for the request.
func stripSniffedContentType(_ *resty.Client, r *http.Request) error {
	if skip, _ := r.Context().Value(noContentTypeKey{}).(bool); skip {
		r.Header.Del(headerContentType)
	}
	return nil
}

// BaseURI returns the normalized base URI.
func (c *Client) BaseURI() string { return c.baseURI }

// Response returns the last response received, including error responses.
// It is nil until the first response arrives.
func (c *Client) Response() *Response { return c.lastResponse }

// Cookies returns the session cookie jar.
func (c *Client) Cookies() http.CookieJar { return c.session.GetClient().Jar }

// CookiesFor returns the cookies the session would send to target.
func (c *Client) CookiesFor(target string) ([]*http.Cookie, error) {
	raw, err := ResolveURL(c.baseURI, target)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return c.Cookies().Cookies(u), nil
}

// restyLogger routes resty's internal messages into the client logger.
type restyLogger struct {
	log *logger.Logger
}

func (r restyLogger) Errorf(format string, v ...interface{}) {
	r.log.Error(fmt.Sprintf(format, v...))
}

func (r restyLogger) Warnf(format string, v ...interface{}) {
	r.log.Warn(fmt.Sprintf(format, v...))
}

func (r restyLogger) Debugf(format string, v ...interface{}) {
	r.log.Debug(fmt.Sprintf(format, v...))
}
