package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"

	"github.com/google/go-querystring/query"
)

// encodedBody is a request payload together with the content type its
// encoding implies. contentType is empty for raw payloads.
type encodedBody struct {
	payload     any
	contentType string
}

// encodeBody applies the body policy for method:
// GET never sends a body, POST sends JSON only while the client is in JSON
// mode, and PUT, PATCH and DELETE always send JSON.
func encodeBody(method string, body any, ct ContentType) (*encodedBody, error) {
	if isNil(body) || method == http.MethodGet {
		return nil, nil
	}
	if method == http.MethodPost && ct != ContentTypeJSON {
		return encodeRaw(body)
	}
	return encodeJSON(body)
}

func encodeJSON(body any) (*encodedBody, error) {
	if raw, ok := body.(json.RawMessage); ok {
		return &encodedBody{payload: []byte(raw), contentType: string(ContentTypeJSON)}, nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: encode json body: %w", err)
	}
	return &encodedBody{payload: b, contentType: string(ContentTypeJSON)}, nil
}

func encodeRaw(body any) (*encodedBody, error) {
	switch v := body.(type) {
	case string:
		return &encodedBody{payload: []byte(v)}, nil
	case []byte:
		return &encodedBody{payload: v}, nil
	case io.Reader:
		return &encodedBody{payload: v}, nil
	case url.Values:
		return formBody(v), nil
	case map[string]string:
		values := make(url.Values, len(v))
		for k, s := range v {
			values.Set(k, s)
		}
		return formBody(values), nil
	case map[string][]string:
		return formBody(url.Values(v)), nil
	case map[string]any:
		values := make(url.Values, len(v))
		for k, s := range v {
			addFormValue(values, k, s)
		}
		return formBody(values), nil
	}
	if isStruct(body) {
		values, err := query.Values(body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode form body: %w", err)
		}
		return formBody(values), nil
	}
	return nil, fmt.Errorf("httpclient: unsupported raw body type %T", body)
}

func formBody(values url.Values) *encodedBody {
	return &encodedBody{
		payload:     []byte(values.Encode()),
		contentType: string(ContentTypeURLEncoded),
	}
}

func isStruct(v any) bool {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t != nil && t.Kind() == reflect.Struct
}

// isNil reports whether v is nil or a typed nil map, slice or pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// addFormValue adds v under key. Slices and arrays become repeated keys, and
// nil values are dropped.
func addFormValue(values url.Values, key string, v any) {
	if isNil(v) {
		return
	}
	if b, ok := v.([]byte); ok {
		values.Add(key, string(b))
		return
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			addFormValue(values, key, rv.Index(i).Interface())
		}
		return
	}
	values.Add(key, fmt.Sprint(v))
}
