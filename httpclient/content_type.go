package httpclient

import "fmt"

// ContentType is the Content-Type value a client sends with every request.
type ContentType string

const (
	// ContentTypeUnset sends no explicit Content-Type header.
	ContentTypeUnset ContentType = ""
	// ContentTypeJSON selects application/json and JSON-encoded POST bodies.
	ContentTypeJSON ContentType = "application/json"
	// ContentTypeText selects text/plain.
	ContentTypeText ContentType = "text/plain"
	// ContentTypeXML selects application/xml.
	ContentTypeXML ContentType = "application/xml"
	// ContentTypeURLEncoded selects application/x-www-form-urlencoded.
	ContentTypeURLEncoded ContentType = "application/x-www-form-urlencoded"
)

var contentTypeNames = map[string]ContentType{
	"":           ContentTypeUnset,
	"json":       ContentTypeJSON,
	"text":       ContentTypeText,
	"xml":        ContentTypeXML,
	"urlencoded": ContentTypeURLEncoded,
}

// ParseContentType maps a short name (json, text, xml, urlencoded) to a ContentType.
// The empty string maps to ContentTypeUnset.
func ParseContentType(name string) (ContentType, error) {
	ct, ok := contentTypeNames[name]
	if !ok {
		return ContentTypeUnset, fmt.Errorf("httpclient: unknown content type %q", name)
	}
	return ct, nil
}

// Name returns the short name of the content type ("" when unset).
func (ct ContentType) Name() string {
	for name, v := range contentTypeNames {
		if v == ct {
			return name
		}
	}
	return string(ct)
}

// UseJSON selects application/json.
func (c *Client) UseJSON() { c.contentType = ContentTypeJSON }

// UseText selects text/plain.
func (c *Client) UseText() { c.contentType = ContentTypeText }

// UseXML selects application/xml.
func (c *Client) UseXML() { c.contentType = ContentTypeXML }

// UseURLEncoded selects application/x-www-form-urlencoded.
func (c *Client) UseURLEncoded() { c.contentType = ContentTypeURLEncoded }

// ContentType returns the currently selected content type.
func (c *Client) ContentType() ContentType { return c.contentType }

// useContentType is the config path into the four selectors above.
func (c *Client) useContentType(ct ContentType) {
	switch ct {
	case ContentTypeJSON:
		c.UseJSON()
	case ContentTypeText:
		c.UseText()
	case ContentTypeXML:
		c.UseXML()
	case ContentTypeURLEncoded:
		c.UseURLEncoded()
	}
}
