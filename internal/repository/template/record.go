package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// errNotObject is returned when the document is valid JSON but not an object.
var errNotObject = errors.New("top-level value is not a JSON object")

// Record is a JSON object that remembers the order of its keys.
type Record struct {
	keys   []string
	values map[string]json.RawMessage

	// trailingNewline records whether the source file ended with a newline.
	trailingNewline bool
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]json.RawMessage)}
}

// Keys returns the keys in document order.
func (r *Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len returns the number of keys.
func (r *Record) Len() int {
	return len(r.keys)
}

// Lookup returns the raw JSON value stored under key.
func (r *Record) Lookup(key string) (json.RawMessage, bool) {
	v, ok := r.values[key]

	return v, ok
}

// StringValue returns the value under key when it is a JSON string.
// Absent keys and non-string values report false.
func (r *Record) StringValue(key string) (string, bool) {
	raw, ok := r.values[key]
	if !ok {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}

	return s, true
}

// SetString stores value under key. New keys go to the end.
func (r *Record) SetString(key, value string) error {
	raw, err := marshalNoEscape(value)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}

	r.set(key, raw)

	return nil
}

func (r *Record) set(key string, raw json.RawMessage) {
	if r.values == nil {
		r.values = make(map[string]json.RawMessage)
	}

	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}

	r.values[key] = raw
}

// UnmarshalJSON decodes a JSON object, keeping key order.
// A repeated key keeps its first position and its last value.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	start, err := dec.Token()
	if err != nil {
		return err
	}

	if delim, ok := start.(json.Delim); !ok || delim != '{' {
		return errNotObject
	}

	r.keys = nil
	r.values = make(map[string]json.RawMessage)

	for dec.More() {
		token, err := dec.Token()
		if err != nil {
			return err
		}

		key, ok := token.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", token)
		}

		var value json.RawMessage
		if err = dec.Decode(&value); err != nil {
			return fmt.Errorf("decode value for %q: %w", key, err)
		}

		r.set(key, value)
	}

	if _, err = dec.Token(); err != nil {
		return err
	}

	return nil
}

// MarshalJSON encodes the record compactly in key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		encodedKey, err := marshalNoEscape(key)
		if err != nil {
			return nil, err
		}

		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(r.values[key])
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// marshalNoEscape encodes v without HTML escaping and without the trailing
// newline json.Encoder appends.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
