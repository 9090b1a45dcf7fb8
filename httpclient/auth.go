package httpclient

import (
	"encoding/base64"
	"net/http"
)

const (
	// DefaultAPIKeyHeader is the header an API key is sent under unless another is given.
	DefaultAPIKeyHeader = "X-API-Key"
	// CSRFTokenHeader carries the CSRF token.
	CSRFTokenHeader = "X-CSRF-Token"

	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
)

type apiKeyCredential struct {
	value  string
	header string
}

// authState holds the credentials configured on a client. Each slot is nil
// until its setter is called; all configured slots are sent together.
type authState struct {
	basic  *string
	apiKey *apiKeyCredential
	csrf   *string
}

// basicAuthValue returns the Authorization value for HTTP Basic auth.
func basicAuthValue(username, password string) string {
	token := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return "Basic " + token
}

// SetBasicAuth configures HTTP Basic authentication. Any strings are accepted.
func (c *Client) SetBasicAuth(username, password string) {
	v := basicAuthValue(username, password)
	c.auth.basic = &v
}

// SetAPIKey configures an API key. The key is sent under headerName when one
// is given and under X-API-Key otherwise.
func (c *Client) SetAPIKey(key string, headerName ...string) {
	header := DefaultAPIKeyHeader
	if len(headerName) > 0 && headerName[0] != "" {
		header = headerName[0]
	}
	c.auth.apiKey = &apiKeyCredential{value: key, header: header}
}

// SetCSRFToken configures the token sent under X-CSRF-Token.
func (c *Client) SetCSRFToken(token string) {
	c.auth.csrf = &token
}

// BasicAuthHeader returns the configured Basic Authorization value, if any.
func (c *Client) BasicAuthHeader() (string, bool) {
	if c.auth.basic == nil {
		return "", false
	}
	return *c.auth.basic, true
}

// apply overlays the configured credentials onto h: Basic, then API key, then CSRF.
// Empty values are skipped.
func (a *authState) apply(h http.Header) {
	if a.basic != nil && *a.basic != "" {
		h.Set(headerAuthorization, *a.basic)
	}
	if a.apiKey != nil && a.apiKey.value != "" {
		h.Set(a.apiKey.header, a.apiKey.value)
	}
	if a.csrf != nil && *a.csrf != "" {
		h.Set(CSRFTokenHeader, *a.csrf)
	}
}

// mergeHeaders builds the outgoing headers for one request. The caller map is
// copied, never mutated; auth state and then the content type are laid on top.
func mergeHeaders(caller map[string]string, auth *authState, ct ContentType) http.Header {
	h := make(http.Header, len(caller)+4)
	for k, v := range caller {
		h.Set(k, v)
	}
	auth.apply(h)
	if ct != ContentTypeUnset {
		h.Set(headerContentType, string(ct))
	}
	return h
}
