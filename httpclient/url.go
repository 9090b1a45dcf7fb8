package httpclient

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
)

// NormalizeBaseURI applies safe URL normalization (lower-case scheme and host,
// default port removal, escape fixes) and leaves exactly one trailing slash.
// An empty input yields "/".
func NormalizeBaseURI(raw string) (string, error) {
	trimmed := strings.TrimRight(raw, "/")
	if trimmed == "" {
		return "/", nil
	}
	normalized, err := purell.NormalizeURLString(trimmed, purell.FlagsSafe)
	if err != nil {
		return "", fmt.Errorf("httpclient: invalid base uri %q: %w", raw, err)
	}
	return strings.TrimRight(normalized, "/") + "/", nil
}

// ResolveURL strips leading slashes from target and resolves it against base
// with RFC 3986 reference resolution. An empty target resolves to base.
//
// Because this is reference resolution rather than concatenation, a target
// such as "../v2/users" or an absolute URL can step outside the base path.
func ResolveURL(base, target string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(strings.TrimLeft(target, "/"))
	if err != nil {
		return "", err
	}
	return b.ResolveReference(ref).String(), nil
}
