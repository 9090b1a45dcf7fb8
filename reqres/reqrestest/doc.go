// Package reqrestest runs an in-memory fake of the reqres.in users API for
// offline tests. Every request is recorded so tests can assert on the exact
// headers and bodies a client sent.
//
//	srv := reqrestest.NewServer(t)
//	api, _ := reqres.New(srv.BaseURL())
//	_, _ = api.GetUser(ctx, 2)
//	req, _ := srv.LastRequest()
package reqrestest
