// Package json is the JSON codec of the module.
package json

import (
	"bytes"
	"encoding/json"
	"io"
)

const (
	// Type JSON definition.
	Type string = "application/json"
	// TypeCharset JSON definition with charset.
	TypeCharset string = "application/json; charset=utf-8"
)

// Decode a JSON input in the form of a reader.
func Decode(data io.Reader, v interface{}) error {
	return json.NewDecoder(data).Decode(v)
}

// DecodeRaw a JSON input in the form of a byte slice.
func DecodeRaw(data []byte, v interface{}) error {
	return json.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// Encode a model to JSON.
func Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
