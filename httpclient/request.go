package httpclient

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/go-querystring/query"
)

// RequestOption customizes a single request.
type RequestOption func(*requestOptions) error

type requestOptions struct {
	query   url.Values
	headers map[string]string
	timeout time.Duration
}

func newRequestOptions(opts []RequestOption) (*requestOptions, error) {
	ro := &requestOptions{query: url.Values{}, headers: map[string]string{}}
	for _, opt := range opts {
		if err := opt(ro); err != nil {
			return nil, err
		}
	}
	return ro, nil
}

// WithParams adds query parameters.
func WithParams(params map[string]string) RequestOption {
	return func(ro *requestOptions) error {
		for k, v := range params {
			ro.query.Set(k, v)
		}
		return nil
	}
}

// WithQuery adds query parameters, keeping repeated values.
func WithQuery(values url.Values) RequestOption {
	return func(ro *requestOptions) error {
		for k, vs := range values {
			for _, v := range vs {
				ro.query.Add(k, v)
			}
		}
		return nil
	}
}

// WithQueryStruct encodes a struct with `url` tags into query parameters.
func WithQueryStruct(v any) RequestOption {
	return func(ro *requestOptions) error {
		values, err := query.Values(v)
		if err != nil {
			return err
		}
		return WithQuery(values)(ro)
	}
}

// WithHeaders adds caller headers. Client credentials and the content type
// override entries of the same name.
func WithHeaders(headers map[string]string) RequestOption {
	return func(ro *requestOptions) error {
		for k, v := range headers {
			ro.headers[k] = v
		}
		return nil
	}
}

// WithHeader adds a single caller header.
func WithHeader(key, value string) RequestOption {
	return func(ro *requestOptions) error {
		ro.headers[key] = value
		return nil
	}
}

// WithTimeout bounds this request. It is layered on the caller's context.
func WithTimeout(d time.Duration) RequestOption {
	return func(ro *requestOptions) error {
		ro.timeout = d
		return nil
	}
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the status line, e.g. "200 OK".
	Status string
	// Headers are the response headers.
	Headers http.Header
	// Body is the raw response body.
	Body []byte
	// URL is the resolved URL the request was sent to.
	URL string
	// Duration is the time taken by the exchange.
	Duration time.Duration

	raw *resty.Response
}

func newResponse(url string, raw *resty.Response) *Response {
	return &Response{
		StatusCode: raw.StatusCode(),
		Status:     raw.Status(),
		Headers:    raw.Header(),
		Body:       raw.Body(),
		URL:        url,
		Duration:   raw.Time(),
		raw:        raw,
	}
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// String returns the body as text.
func (r *Response) String() string {
	return string(r.Body)
}

// Raw returns the underlying transport response.
func (r *Response) Raw() *resty.Response {
	return r.raw
}
