package geometry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Properties is a feature's property mapping with stable key order.
//
// Keys keep the order they were added or read in, so a collection built from
// a table lists its properties in column order and a collection read from
// disk is written back the way it was.
type Properties struct {
	keys   []string
	values map[string]any
}

// NewProperties returns an empty property set.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]any)}
}

// Set assigns a value. New keys are appended; existing keys keep their place.
func (p *Properties) Set(key string, value any) {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the raw value of a key.
func (p *Properties) Get(key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the keys in order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// String returns the value of a key as text.
// Missing keys and nulls yield ""; numbers keep their JSON spelling.
func (p *Properties) String(key string) string {
	v, ok := p.Get(key)
	if !ok {
		return ""
	}
	return stringify(v)
}

// Lookup returns the first non-empty value among the given names.
// Names are matched case-insensitively and tried in order.
func (p *Properties) Lookup(names []string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, name := range names {
		for _, key := range p.keys {
			if !strings.EqualFold(key, name) {
				continue
			}
			if s := stringify(p.values[key]); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// MarshalJSON writes the properties as an object in key order.
// HTML characters are not escaped.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeValue(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeValue(&buf, p.values[key]); err != nil {
			return nil, fmt.Errorf("property %q: %w", key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// UnmarshalJSON reads an object, keeping the document's key order.
// Numbers are kept as json.Number.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("properties must be an object, got %v", tok)
	}

	p.keys = nil
	p.values = make(map[string]any)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected property key %v", tok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
		p.Set(key, value)
	}

	_, err = dec.Token()
	return err
}
