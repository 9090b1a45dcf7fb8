package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
)

// ErrorCode classifies request failures.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a request or connection timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a transport failure (refused, DNS, redirect loop, read error).
	ErrCodeConnection
	// ErrCodeAuth indicates an authentication/authorization failure (401/403).
	ErrCodeAuth
	// ErrCodeNotFound indicates the resource was not found (404).
	ErrCodeNotFound
	// ErrCodeRateLimit indicates rate limiting (429).
	ErrCodeRateLimit
	// ErrCodeValidation indicates any other 4xx response.
	ErrCodeValidation
	// ErrCodeServer indicates a server-side error (5xx).
	ErrCodeServer
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeServer:
		return "server"
	default:
		return "unknown"
	}
}

// RequestError is the single error type returned for a failed dispatch.
// It is produced for transport failures (StatusCode 0) and for responses with
// a status of 400 or above.
type RequestError struct {
	// Message is the human-readable description of the failure.
	Message string
	// URL is the resolved request URL.
	URL string
	// Method is the HTTP method.
	Method string
	// StatusCode is the response status, or 0 when no response was received.
	StatusCode int
	// Code classifies the failure.
	Code ErrorCode
	// Err is the underlying failure.
	Err error
}

// Error renders "message | Request: METHOD URL | Status Code: N", dropping
// the segments whose data is missing.
func (e *RequestError) Error() string {
	parts := []string{e.Message}
	if e.Method != "" && e.URL != "" {
		parts = append(parts, "Request: "+e.Method+" "+e.URL)
	}
	if e.StatusCode > 0 {
		parts = append(parts, "Status Code: "+strconv.Itoa(e.StatusCode))
	}
	return strings.Join(parts, " | ")
}

// Unwrap returns the underlying failure.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// HasStatus reports whether the failure carried an HTTP response.
func (e *RequestError) HasStatus() bool {
	return e.StatusCode > 0
}

// StatusError describes a response whose status is 400 or above.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
	Body       []byte
}

// Error renders e.g. "404 Client Error: Not Found for url: http://host/x".
func (e *StatusError) Error() string {
	kind := "Client Error"
	if e.StatusCode >= 500 {
		kind = "Server Error"
	}
	return fmt.Sprintf("%d %s: %s for url: %s", e.StatusCode, kind, e.reason(), e.URL)
}

func (e *StatusError) reason() string {
	// Status arrives as "404 Not Found" from net/http.
	if r := strings.TrimSpace(strings.TrimPrefix(e.Status, strconv.Itoa(e.StatusCode))); r != "" {
		return r
	}
	return http.StatusText(e.StatusCode)
}

func newStatusError(method, url string, resp *Response) *RequestError {
	se := &StatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		URL:        url,
		Body:       resp.Body,
	}
	return &RequestError{
		Message:    se.Error(),
		URL:        url,
		Method:     method,
		StatusCode: resp.StatusCode,
		Code:       classifyStatus(resp.StatusCode),
		Err:        se,
	}
}

func newTransportError(method, url string, statusCode int, err error) *RequestError {
	return &RequestError{
		Message:    err.Error(),
		URL:        url,
		Method:     method,
		StatusCode: statusCode,
		Code:       classifyTransport(err),
		Err:        err,
	}
}

func classifyStatus(statusCode int) ErrorCode {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return ErrCodeAuth
	case statusCode == http.StatusNotFound:
		return ErrCodeNotFound
	case statusCode == http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case statusCode >= 400 && statusCode < 500:
		return ErrCodeValidation
	default:
		return ErrCodeServer
	}
}

func classifyTransport(err error) ErrorCode {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrCodeTimeout
	}
	return ErrCodeConnection
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *RequestError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

func hasCode(err error, code ErrorCode) bool {
	var e *RequestError
	return errors.As(err, &e) && e.Code == code
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsAuth checks if an error is an authentication error.
func IsAuth(err error) bool { return hasCode(err, ErrCodeAuth) }

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsRateLimit checks if an error is a rate-limit error.
func IsRateLimit(err error) bool { return hasCode(err, ErrCodeRateLimit) }

// IsServerError checks if an error is a server error.
func IsServerError(err error) bool { return hasCode(err, ErrCodeServer) }
