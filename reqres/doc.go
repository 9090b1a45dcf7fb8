// Package reqres is a typed utility for the reqres.in users API, built on
// httpclient. It is the fixture the end-to-end tests drive.
//
//	api, err := reqres.New(reqres.DefaultBaseURL, reqres.WithAPIKey("reqres-free-v1"))
//	user, err := api.GetUser(ctx, 2)
//	created, err := api.CreateUser(ctx, "Test User", "Software Tester")
//
// Package reqrestest provides an in-memory fake of the same API.
package reqres
