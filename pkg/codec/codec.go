// Package codec provides value codecs used to persist map values in
// snapshots.
package codec

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Codec names accepted by ByName.
const (
	NameJSON   = "json"
	NameGob    = "gob"
	NameYAML   = "yaml"
	NameString = "string"
)

// ErrUnknownCodec is returned by ByName for unsupported names, and for the
// string codec requested for a non-string value type.
var ErrUnknownCodec = errors.New("unknown codec")

// Codec defines how a single value is serialized and deserialized.
type Codec[V any] interface {
	// Marshal encodes the value.
	Marshal(value V) ([]byte, error)
	// Unmarshal decodes a value previously produced by Marshal.
	Unmarshal(data []byte) (V, error)
	// Name identifies the codec (e.g., "json", "gob").
	Name() string
}

// JSON implements Codec using compact JSON encoding.
type JSON[V any] struct{}

// Marshal implements Codec.Marshal using JSON encoding.
func (JSON[V]) Marshal(value V) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}

	return data, nil
}

// Unmarshal implements Codec.Unmarshal using JSON decoding.
func (JSON[V]) Unmarshal(data []byte) (V, error) {
	var value V

	err := json.Unmarshal(data, &value)
	if err != nil {
		return value, fmt.Errorf("json decode: %w", err)
	}

	return value, nil
}

// Name implements Codec.Name.
func (JSON[V]) Name() string { return NameJSON }

// Gob implements Codec using gob encoding. Every value carries its own type
// description, so it suits small maps of structured values.
type Gob[V any] struct{}

// Marshal implements Codec.Marshal using gob encoding.
func (Gob[V]) Marshal(value V) ([]byte, error) {
	var buf bytes.Buffer

	err := gob.NewEncoder(&buf).Encode(value)
	if err != nil {
		return nil, fmt.Errorf("gob encode: %w", err)
	}

	return buf.Bytes(), nil
}

// Unmarshal implements Codec.Unmarshal using gob decoding.
func (Gob[V]) Unmarshal(data []byte) (V, error) {
	var value V

	err := gob.NewDecoder(bytes.NewReader(data)).Decode(&value)
	if err != nil {
		return value, fmt.Errorf("gob decode: %w", err)
	}

	return value, nil
}

// Name implements Codec.Name.
func (Gob[V]) Name() string { return NameGob }

// YAML implements Codec using YAML encoding.
type YAML[V any] struct{}

// Marshal implements Codec.Marshal using YAML encoding.
func (YAML[V]) Marshal(value V) ([]byte, error) {
	data, err := yaml.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("yaml encode: %w", err)
	}

	return data, nil
}

// Unmarshal implements Codec.Unmarshal using YAML decoding.
func (YAML[V]) Unmarshal(data []byte) (V, error) {
	var value V

	err := yaml.Unmarshal(data, &value)
	if err != nil {
		return value, fmt.Errorf("yaml decode: %w", err)
	}

	return value, nil
}

// Name implements Codec.Name.
func (YAML[V]) Name() string { return NameYAML }

// String stores strings as their raw bytes.
type String struct{}

// Marshal implements Codec.Marshal.
func (String) Marshal(value string) ([]byte, error) { return []byte(value), nil }

// Unmarshal implements Codec.Unmarshal.
func (String) Unmarshal(data []byte) (string, error) { return string(data), nil }

// Name implements Codec.Name.
func (String) Name() string { return NameString }

// ByName returns the codec registered under name for values of type V.
func ByName[V any](name string) (Codec[V], error) {
	switch name {
	case NameJSON:
		return JSON[V]{}, nil
	case NameGob:
		return Gob[V]{}, nil
	case NameYAML:
		return YAML[V]{}, nil
	case NameString:
		if c, ok := any(String{}).(Codec[V]); ok {
			return c, nil
		}

		return nil, fmt.Errorf("%w: %q needs string values", ErrUnknownCodec, name)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// Names lists the codec names accepted by ByName.
func Names() []string {
	return []string{NameJSON, NameGob, NameYAML, NameString}
}
