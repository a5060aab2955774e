// Package json provides a JSON codec implementation.
package json

import (
	"bytes"
	"encoding/json"

	"github.com/zoobzio/shroud"
)

// Option configures the JSON codec.
type Option func(*jsonCodec)

// WithIndent pretty-prints output like json.MarshalIndent.
func WithIndent(prefix, indent string) Option {
	return func(c *jsonCodec) {
		c.prefix = prefix
		c.indent = indent
	}
}

// WithoutHTMLEscape leaves <, > and & unescaped in strings.
func WithoutHTMLEscape() Option {
	return func(c *jsonCodec) { c.escapeHTML = false }
}

// jsonCodec implements shroud.Codec for JSON.
type jsonCodec struct {
	prefix     string
	indent     string
	escapeHTML bool
}

// New returns a JSON codec.
func New(opts ...Option) shroud.Codec {
	c := &jsonCodec{escapeHTML: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	if c.escapeHTML && c.prefix == "" && c.indent == "" {
		return json.Marshal(v)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(c.escapeHTML)
	enc.SetIndent(c.prefix, c.indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
