// Package httpclient is a thin HTTP client for API automation and testing.
//
// It layers authentication headers, content-type selection, base-URI
// resolution and uniform error reporting on top of a resty session. The
// session keeps cookies across calls, follows redirects and owns the
// connection pool; this package adds no retry, rate limiting or streaming.
//
// # Basic Usage
//
//	c, err := httpclient.New("https://reqres.in/api")
//	c.UseJSON()
//	c.SetAPIKey("reqres-free-v1")
//
//	resp, err := c.Post(ctx, "users", map[string]string{"name": "Test User"})
//	var reqErr *httpclient.RequestError
//	if errors.As(err, &reqErr) {
//	    fmt.Println(reqErr.Method, reqErr.URL, reqErr.StatusCode)
//	}
//
// # Header merge
//
// Every request starts from the caller's headers and then overlays, in
// order, the Basic Authorization header, the API key header, the
// X-CSRF-Token header and the Content-Type header. Client-level state
// always wins over a caller header of the same name.
//
// # Body encoding
//
// POST bodies are JSON-encoded only while UseJSON is active; otherwise
// they are sent raw or form-encoded. PUT, PATCH and DELETE bodies are
// always JSON-encoded.
//
// A Client is not safe for concurrent use.
package httpclient
