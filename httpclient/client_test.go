package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/webframe/logger"
)

// captured is what the test server saw for one request.
type captured struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

type recorder struct {
	mu   sync.Mutex
	reqs []captured
}

func (r *recorder) last(t *testing.T) captured {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.reqs) == 0 {
		t.Fatal("no request recorded")
	}
	return r.reqs[len(r.reqs)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reqs)
}

func newTestServer(t *testing.T) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.reqs = append(rec.reqs, captured{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		rec.mu.Unlock()

		switch {
		case r.URL.Path == "/api/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"missing"}`))
		case r.URL.Path == "/api/broken":
			w.WriteHeader(http.StatusInternalServerError)
		case r.URL.Path == "/api/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc123", Path: "/"})
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/api/me":
			c, err := r.Cookie("session")
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(c.Value))
		case r.URL.Path == "/api/old":
			http.Redirect(w, r, "/api/new", http.StatusFound)
		case r.URL.Path == "/api/slow":
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":2,"path":"` + r.URL.Path + `"}`))
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestClient(t *testing.T, base string) *Client {
	t.Helper()
	c, err := New(base, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func expectHeader(t *testing.T, h http.Header, key, want string) {
	t.Helper()
	if got := h.Get(key); got != want {
		t.Errorf("header %s: expected %q, got %q", key, want, got)
	}
}

func TestNew_BaseURI(t *testing.T) {
	c := newTestClient(t, "http://localhost:8080/api")
	if got := c.BaseURI(); got != "http://localhost:8080/api/" {
		t.Errorf("expected http://localhost:8080/api/, got %s", got)
	}
	if c.Response() != nil {
		t.Error("expected no response before the first request")
	}
	if c.ContentType() != ContentTypeUnset {
		t.Errorf("expected unset content type, got %q", c.ContentType())
	}

	c = newTestClient(t, "")
	if got := c.BaseURI(); got != "/" {
		t.Errorf("expected /, got %s", got)
	}
}

func TestClient_Get(t *testing.T) {
	srv, rec := newTestServer(t)
	c := newTestClient(t, srv.URL+"/api")

	resp, err := c.Get(context.Background(), "/users/2", WithParams(map[string]string{"page": "1"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if !resp.IsSuccess() {
		t.Error("expected IsSuccess=true")
	}
	if resp.URL != srv.URL+"/api/users/2" {
		t.Errorf("expected url %s/api/users/2, got %s", srv.URL, resp.URL)
	}
	if c.Response() != resp {
		t.Error("expected the response to be stored as the last response")
	}

	var body struct {
		ID   int    `json:"id"`
		Path string `json:"path"`
	}
	if err := resp.JSON(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != 2 {
		t.Errorf("expected id 2, got %d", body.ID)
	}

	got := rec.last(t)
	if got.Path != "/api/users/2" {
		t.Errorf("expected /api/users/2, got %s", got.Path)
	}
	if got.Query != "page=1" {
		t.Errorf("expected page=1, got %s", got.Query)
	}
	if got.Body != "" {
		t.Errorf("GET should not carry a body, got %q", got.Body)
	}
	expectHeader(t, got.Header, "User-Agent", "webframe/dev")
	expectHeader(t, got.Header, "Accept", "*/*")
}

func TestClient_QueryOptions(t *testing.T) {
	srv, rec := newTestServer(t)
	c := newTestClient(t, srv.URL+"/api")

	type filter struct {
		Page    int `url:"page"`
		PerPage int `url:"per_page"`
	}
	if _, err := c.Get(context.Background(), "users", WithQueryStruct(filter{Page: 2, PerPage: 6})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.last(t).Query; got != "page=2&per_page=6" {
		t.Errorf("expected page=2&per_page=6, got %s", got)
	}

	if _, err := c.Get(context.Background(), "users", WithQuery(map[string][]string{"id": {"1", "2"}})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.last(t).Query; got != "id=1&id=2" {
		t.Errorf("expected id=1&id=2, got %s", got)
	}
}

func TestClient_OptionErrorIsReturnedUnwrapped(t *testing.T) {
	c := newTestClient(t, "http://localhost/")
	_, err := c.Get(context.Background(), "users", WithQueryStruct(42))
	if err == nil {
		t.Fatal("expected error for non-struct query")
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		t.Errorf("option errors should not be wrapped in RequestError, got %v", err)
	}
}

func TestClient_AuthHeadersOverrideCaller(t *testing.T) {
	srv, rec := newTestServer(t)
	c := newTestClient(t, srv.URL+"/api")
	c.SetBasicAuth("user", "pass")
	c.SetAPIKey("reqres-free-v1", "x-api-key")
	c.SetCSRFToken("csrf-1")
	c.UseJSON()

	caller := map[string]string{
		"Authorization": "Bearer from-caller",
		"X-Custom":      "kept",
	}
	if _, err := c.Get(context.Background(), "users", WithHeaders(caller), WithHeader("content-type", "text/csv")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := rec.last(t).Header
	expectHeader(t, got, "Authorization", "Basic dXNlcjpwYXNz")
	expectHeader(t, got, "X-Api-Key", "reqres-free-v1")
	expectHeader(t, got, "X-CSRF-Token", "csrf-1")
	expectHeader(t, got, "Content-Type", "application/json")
	expectHeader(t, got, "X-Custom", "kept")
	if caller["Authorization"] != "Bearer from-caller" {
		t.Errorf("caller headers were modified: %v", caller)
	}
}

func TestClient_CallerAuthorizationWithoutBasic(t *testing.T) {
	srv, rec := newTestServer(t)
	c := newTestClient(t, srv.URL)

	if _, err := c.Get(context.Background(), "x", WithHeader("Authorization", "Bearer t")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectHeader(t, rec.last(t).Header, "Authorization", "Bearer t")
}

func TestClient_PostJSON(t *testing.T) {
	srv, rec := newTestServer(t)
	c := newTestClient(t, srv.URL+"/api")
	c.UseJSON()

	if _, err := c.Post(context.Background(), "users", map[string]string{"name": "Test User", "job": "Tester"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := rec.last(t)
	if got.Method != http.MethodPost {
		t.Errorf("expected POST, got %s", got.Method)
	}
	expectHeader(t, got.Header, "Content-Type", "application/json")
	assertJSON(t, `{"name":"Test User","job":"Tester"}`, got.Body)
}

func TestClient_PostForm(t *testing.T) {
	srv, rec := newTestServer(t)
	c := newTestClient(t, srv.URL+"/api")
	c.UseURLEncoded()

	if _, err := c.Post(context.Background(), "users", map[string]string{"name": "Test User"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := rec.last(t)
	expectHeader(t, got.Header, "Content-Type", "application/x-www-form-urlencoded")
	if got.Body != "name=Test+User" {
		t.Errorf("expected name=Test+User, got %q", got.Body)
	}
}

func TestClient_PostFormWithoutContentType(t *testing.T) {
	srv, rec := newTestServer(t)
	c := newTestClient(t, srv.URL)

	if _, err := c.Post(context.Background(), "users", map[string]any{"name": "neo", "tags": []string{"a", "b"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := rec.last(t)
	expectHeader(t, got.Header, "Content-Type", "application/x-www-form-urlencoded")
	if got.Body != "name=neo&tags=a&tags=b" {
		t.Errorf("expected name=neo&tags=a&tags=b, got %q", got.Body)
	}
}

func TestClient_PostRawWithoutContentType(t *testing.T) {
	srv, rec := newTestServer(t)
	c := newTestClient(t, srv.URL)

	tests := []struct {
		name string
		body any
		want string
	}{
		{"string", "hello", "hello"},
		{"json bytes", []byte(`{"a":1}`), `{"a":1}`},
		{"html bytes", []byte("<html>"), "<html>"},
		{"reader", strings.NewReader("stream"), "stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Post(context.Background(), "x", tt.body); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := rec.last(t)
			if v := got.Header.Values("Content-Type"); len(v) != 0 {
				t.Errorf("expected no Content-Type, got %v", v)
			}
			if got.Body != tt.want {
				t.Errorf("expected body %q, got %q", tt.want, got.Body)
			}
		})
	}

	// a caller header still goes out untouched
	if _, err := c.Post(context.Background(), "x", "a,b", WithHeader("Content-Type", "text/csv")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectHeader(t, rec.last(t).Header, "Content-Type", "text/csv")
}

func TestClient_PostRawXML(t *testing.T) {
	srv, rec := newTestServer(t)
	c := newTestClient(t, srv.URL)
	c.UseXML()

	if _, err := c.Post(context.Background(), "users", "<user><name>neo</name></user>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := rec.last(t)
	expectHeader(t, got.Header, "Content-Type", "application/xml")
	if got.Body != "<user><name>neo</name></user>" {
		t.Errorf("expected raw xml body, got %q", got.Body)
	}
}

func TestClient_PostBodyEncodeError(t *testing.T) {
	srv, rec := newTestServer(t)
	c := newTestClient(t, srv.URL)
	c.UseText()

	_, err := c.Post(context.Background(), "users", 3.14)
	if err == nil {
		t.Fatal("expected error for float body")
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		t.Errorf("encode errors should not be wrapped in RequestError, got %v", err)
	}
	if n := rec.count(); n != 0 {
		t.Errorf("expected no request to be sent, got %d", n)
	}
}

func TestClient_PutAlwaysJSON(t *testing.T) {
	srv, rec := newTestServer(t)
	c := newTestClient(t, srv.URL+"/api")
	c.UseURLEncoded()

	if _, err := c.Put(context.Background(), "users/2", map[string]string{"job": "zion resident"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := rec.last(t)
	if got.Method != http.MethodPut {
		t.Errorf("expected PUT, got %s", got.Method)
	}
	assertJSON(t, `{"job":"zion resident"}`, got.Body)
	// the selected content type still wins over the body's
	expectHeader(t, got.Header, "Content-Type", "application/x-www-form-urlencoded")
}

func TestClient_PutTypedNilSendsNoBody(t *testing.T) {
	srv, rec := newTestServer(t)
	c := newTestClient(t, srv.URL+"/api")

	var update map[string]any
	if _, err := c.Put(context.Background(), "users/2", update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := rec.last(t)
	if got.Body != "" {
		t.Errorf("expected empty body, got %q", got.Body)
	}
	if v := got.Header.Values("Content-Type"); len(v) != 0 {
		t.Errorf("expected no Content-Type, got %v", v)
	}
}

func TestClient_PatchAndDelete(t *testing.T) {
	srv, rec := newTestServer(t)
	c := newTestClient(t, srv.URL+"/api")

	if _, err := c.Patch(context.Background(), "users/2", map[string]string{"job": "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := rec.last(t)
	if got.Method != http.MethodPatch {
		t.Errorf("expected PATCH, got %s", got.Method)
	}
	expectHeader(t, got.Header, "Content-Type", "application/json")

	resp, err := c.Delete(context.Background(), "users/2", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
	if len(resp.Body) != 0 {
		t.Errorf("expected empty body, got %q", resp.Body)
	}
	if m := rec.last(t).Method; m != http.MethodDelete {
		t.Errorf("expected DELETE, got %s", m)
	}
}

func TestClient_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newTestClient(t, srv.URL+"/api")

	resp, err := c.Get(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if resp != nil {
		t.Errorf("expected nil response on error, got %+v", resp)
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T", err)
	}
	if reqErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", reqErr.StatusCode)
	}
	if reqErr.Method != http.MethodGet {
		t.Errorf("expected GET, got %s", reqErr.Method)
	}
	if reqErr.URL != srv.URL+"/api/missing" {
		t.Errorf("expected url %s/api/missing, got %s", srv.URL, reqErr.URL)
	}
	if !IsNotFound(err) {
		t.Error("expected IsNotFound=true")
	}
	for _, part := range []string{"GET " + srv.URL + "/api/missing", "Status Code: 404", "404 Client Error: Not Found"} {
		if !strings.Contains(err.Error(), part) {
			t.Errorf("error %q should contain %q", err.Error(), part)
		}
	}

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError in chain, got %v", err)
	}
	assertJSON(t, `{"error":"missing"}`, string(se.Body))

	// the error response is still stored
	last := c.Response()
	if last == nil {
		t.Fatal("expected the error response to be stored")
	}
	if last.StatusCode != http.StatusNotFound || !last.IsError() {
		t.Errorf("expected stored 404 error response, got %d", last.StatusCode)
	}
}

func TestClient_ServerError(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newTestClient(t, srv.URL+"/api")

	_, err := c.Post(context.Background(), "broken", nil)
	if err == nil {
		t.Fatal("expected error for 500")
	}
	if !IsServerError(err) {
		t.Error("expected IsServerError=true")
	}
	if code := StatusCode(err); code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", code)
	}
	if !strings.Contains(err.Error(), "500 Server Error") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestClient_CookiesPersist(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newTestClient(t, srv.URL+"/api")

	if _, err := c.Get(context.Background(), "login"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cookies, err := c.CookiesFor("me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cookies) != 1 || cookies[0].Name != "session" {
		t.Fatalf("expected one session cookie, got %v", cookies)
	}

	resp, err := c.Get(context.Background(), "me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.String() != "abc123" {
		t.Errorf("expected abc123, got %q", resp.String())
	}
}

func TestClient_FollowsRedirects(t *testing.T) {
	srv, rec := newTestServer(t)
	c := newTestClient(t, srv.URL+"/api")

	resp, err := c.Get(context.Background(), "old")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if p := rec.last(t).Path; p != "/api/new" {
		t.Errorf("expected redirect to /api/new, got %s", p)
	}
}

func TestClient_Timeout(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newTestClient(t, srv.URL+"/api")

	_, err := c.Get(context.Background(), "slow", WithTimeout(50*time.Millisecond))
	if err == nil {
		t.Fatal("expected timeout error")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T", err)
	}
	if !IsTimeout(err) {
		t.Errorf("expected IsTimeout=true, got code %s", reqErr.Code)
	}
	if reqErr.HasStatus() {
		t.Error("timeout should carry no status")
	}
	if !strings.Contains(err.Error(), "Request: GET "+srv.URL+"/api/slow") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestClient_ConfigTimeout(t *testing.T) {
	srv, _ := newTestServer(t)
	c, err := NewFromConfig(Config{BaseURI: srv.URL + "/api", Timeout: 50 * time.Millisecond}, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Get(context.Background(), "slow")
	if !IsTimeout(err) {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestClient_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := newTestClient(t, base)
	_, err := c.Get(context.Background(), "users")
	if err == nil {
		t.Fatal("expected connection error")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T", err)
	}
	if !IsConnection(err) {
		t.Errorf("expected IsConnection=true, got code %s", reqErr.Code)
	}
	if reqErr.StatusCode != 0 {
		t.Errorf("expected no status, got %d", reqErr.StatusCode)
	}
	if reqErr.Unwrap() == nil {
		t.Error("expected the transport error to be wrapped")
	}
	if c.Response() != nil {
		t.Error("expected no stored response")
	}
	if strings.Contains(err.Error(), "Status Code") {
		t.Errorf("message should omit the status segment: %v", err)
	}
}

func TestClient_WithHTTPClient(t *testing.T) {
	srv, rec := newTestServer(t)
	hc := &http.Client{Timeout: time.Second}
	c, err := New(srv.URL, WithHTTPClient(hc), WithUserAgent("reqres-tests/1.0"), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Cookies() == nil {
		t.Error("expected a cookie jar to be installed")
	}
	if _, err := c.Get(context.Background(), "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectHeader(t, rec.last(t).Header, "User-Agent", "reqres-tests/1.0")
}

func TestNewFromConfig(t *testing.T) {
	srv, rec := newTestServer(t)
	cfg := Config{
		BaseURI:     srv.URL + "/api",
		ContentType: "json",
		Auth: AuthConfig{
			Username:  "user",
			Password:  "pass",
			APIKey:    "key",
			CSRFToken: "tok",
		},
	}
	c, err := NewFromConfig(cfg, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ContentType() != ContentTypeJSON {
		t.Errorf("expected application/json, got %q", c.ContentType())
	}

	if _, err := c.Post(context.Background(), "users", map[string]any{"name": "neo"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := rec.last(t)
	expectHeader(t, got.Header, "Authorization", "Basic dXNlcjpwYXNz")
	expectHeader(t, got.Header, DefaultAPIKeyHeader, "key")
	expectHeader(t, got.Header, CSRFTokenHeader, "tok")
	assertJSON(t, `{"name":"neo"}`, got.Body)
}

func TestNewFromConfig_Invalid(t *testing.T) {
	_, err := NewFromConfig(Config{ContentType: "yaml"})
	if err == nil || !strings.Contains(err.Error(), "content_type") {
		t.Errorf("expected content_type error, got %v", err)
	}

	if _, err := NewFromConfig(Config{Timeout: -time.Second}); err == nil {
		t.Error("expected error for negative timeout")
	}
}
