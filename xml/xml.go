// Package xml provides an XML codec implementation.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/shroud"
)

// Option configures the XML codec.
type Option func(*xmlCodec)

// WithIndent pretty-prints output like xml.MarshalIndent.
func WithIndent(prefix, indent string) Option {
	return func(c *xmlCodec) {
		c.prefix = prefix
		c.indent = indent
	}
}

// WithHeader prepends the standard XML declaration.
func WithHeader() Option {
	return func(c *xmlCodec) { c.header = true }
}

// xmlCodec implements shroud.Codec for XML.
type xmlCodec struct {
	prefix string
	indent string
	header bool
}

// New returns an XML codec.
func New(opts ...Option) shroud.Codec {
	c := &xmlCodec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as XML.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if c.prefix == "" && c.indent == "" {
		data, err = xml.Marshal(v)
	} else {
		data, err = xml.MarshalIndent(v, c.prefix, c.indent)
	}
	if err != nil {
		return nil, err
	}
	if c.header {
		data = append([]byte(xml.Header), data...)
	}
	return data, nil
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}
