package httpclient

import (
	"encoding/json"
	"fmt"
)

// DecodeJSON decodes a response body into a value of type T.
//
//	user, err := httpclient.DecodeJSON[User](resp)
func DecodeJSON[T any](resp *Response) (T, error) {
	var zero T
	if resp == nil {
		return zero, fmt.Errorf("httpclient: nil response")
	}
	var v T
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		return zero, fmt.Errorf("httpclient: decode %s: %w", resp.URL, err)
	}
	return v, nil
}
