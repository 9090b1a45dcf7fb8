// Package version carries the webframe build identity.
//
// Version, Commit and BuildTime are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/webframe/version.Version=1.2.0" ./cmd/webframe
//
// When they are left empty the VCS stamps embedded by the Go toolchain are used.
package version
