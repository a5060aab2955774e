// Package bson provides a BSON codec implementation.
package bson

import (
	"github.com/zoobzio/shroud"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements shroud.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() shroud.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON.
// BSON has no top-level null, so nil encodes as an empty document.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	if v == nil {
		return bson.Marshal(bson.D{})
	}
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}
