// Package msgpack provides a MessagePack codec implementation.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/shroud"
)

// Option configures the MessagePack codec.
type Option func(*msgpackCodec)

// WithJSONTags reads field names from json tags instead of msgpack tags,
// so a type tagged once for JSON encodes with the same keys.
func WithJSONTags() Option {
	return func(c *msgpackCodec) { c.structTag = "json" }
}

// msgpackCodec implements shroud.Codec for MessagePack.
type msgpackCodec struct {
	structTag string
}

// New returns a MessagePack codec.
func New(opts ...Option) shroud.Codec {
	c := &msgpackCodec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	if c.structTag == "" {
		return msgpack.Marshal(v)
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag(c.structTag)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	if c.structTag == "" {
		return msgpack.Unmarshal(data, v)
	}

	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag(c.structTag)
	return dec.Decode(v)
}
