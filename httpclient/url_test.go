package httpclient

import "testing"

func TestNormalizeBaseURI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"adds trailing slash", "https://reqres.in/api", "https://reqres.in/api/"},
		{"collapses trailing slashes", "https://reqres.in/api///", "https://reqres.in/api/"},
		{"lowercases scheme and host", "HTTPS://Reqres.IN/api", "https://reqres.in/api/"},
		{"drops default port", "https://reqres.in:443/api", "https://reqres.in/api/"},
		{"host only", "http://localhost:8080", "http://localhost:8080/"},
		{"empty", "", "/"},
		{"only slashes", "///", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeBaseURI(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeBaseURI(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		target string
		want   string
	}{
		{"relative target", "https://reqres.in/api/", "users/2", "https://reqres.in/api/users/2"},
		{"leading slash stripped", "https://reqres.in/api/", "/users/2", "https://reqres.in/api/users/2"},
		{"many leading slashes", "https://reqres.in/api/", "///users", "https://reqres.in/api/users"},
		{"empty target is base", "https://reqres.in/api/", "", "https://reqres.in/api/"},
		{"keeps query", "https://reqres.in/api/", "users?page=2", "https://reqres.in/api/users?page=2"},
		{"dot segments step out", "https://reqres.in/api/v1/", "../v2/users", "https://reqres.in/api/v2/users"},
		{"absolute target wins", "https://reqres.in/api/", "http://example.com/x", "http://example.com/x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveURL(tt.base, tt.target)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.target, got, tt.want)
			}
		})
	}
}

func TestResolveURL_InvalidTarget(t *testing.T) {
	if _, err := ResolveURL("https://reqres.in/api/", "users/%zz"); err == nil {
		t.Error("expected error for malformed escape")
	}
}
