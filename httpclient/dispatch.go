package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/webframe/logger"
)

// Get sends a GET request. GET never carries a body.
func (c *Client) Get(ctx context.Context, target string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, target, nil, opts...)
}

// Post sends a POST request. The body is JSON-encoded only while the client
// uses application/json; otherwise it is sent raw or form-encoded.
func (c *Client) Post(ctx context.Context, target string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, target, body, opts...)
}

// Put sends a PUT request with a JSON-encoded body.
func (c *Client) Put(ctx context.Context, target string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPut, target, body, opts...)
}

// Patch sends a PATCH request with a JSON-encoded body.
func (c *Client) Patch(ctx context.Context, target string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, target, body, opts...)
}

// Delete sends a DELETE request with a JSON-encoded body, if any.
func (c *Client) Delete(ctx context.Context, target string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, target, body, opts...)
}

// Do resolves target against the base URI, merges headers, encodes body and
// sends the request through the session.
//
// Option, URL and body encoding failures are returned as-is. Transport
// failures and responses with status 400 or above are returned as
// *RequestError. Any response received is stored as the last response,
// error responses included.
func (c *Client) Do(ctx context.Context, method, target string, body any, opts ...RequestOption) (*Response, error) {
	ro, err := newRequestOptions(opts)
	if err != nil {
		return nil, err
	}
	fullURL, err := ResolveURL(c.baseURI, target)
	if err != nil {
		return nil, err
	}
	headers := mergeHeaders(ro.headers, &c.auth, c.contentType)
	enc, err := encodeBody(method, body, c.contentType)
	if err != nil {
		return nil, err
	}

	if ro.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ro.timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	ctx, span := c.tel.start(ctx, method, fullURL, requestID, headers)

	if enc != nil {
		if enc.contentType != "" && headers.Get(headerContentType) == "" {
			headers.Set(headerContentType, enc.contentType)
		}
		if headers.Get(headerContentType) == "" {
			ctx = withoutContentType(ctx)
		}
	}

	req := c.session.R().SetContext(ctx)
	if enc != nil {
		req.SetBody(enc.payload)
	}
	req.Header = headers
	if len(ro.query) > 0 {
		req.SetQueryParamsFromValues(ro.query)
	}

	start := time.Now()
	raw, err := req.Execute(method, fullURL)
	elapsed := time.Since(start)

	var resp *Response
	status := 0
	if raw != nil && raw.RawResponse != nil {
		resp = newResponse(fullURL, raw)
		c.lastResponse = resp
		status = resp.StatusCode
	}

	var reqErr *RequestError
	switch {
	case err != nil:
		reqErr = newTransportError(method, fullURL, status, err)
	case resp != nil && resp.StatusCode >= 400:
		reqErr = newStatusError(method, fullURL, resp)
	}
	c.tel.end(ctx, span, method, status, elapsed, reqErr)

	fields := logger.Fields(
		logger.FieldMethod, method,
		logger.FieldURL, fullURL,
		logger.FieldStatus, status,
		logger.FieldRequestID, requestID,
	)
	fields = logger.MergeWithDuration(fields, elapsed)
	if reqErr != nil {
		c.log.WithContext(ctx).Warn("request failed", logger.MergeWithError(fields, reqErr))
		return nil, reqErr
	}
	c.log.WithContext(ctx).Debug("request completed", fields)
	return resp, nil
}
