package client

import (
	"bytes"
	"encoding/json"
)

// Payload is a successful response body. JSON bodies are kept as JSON, an
// empty body reads as an empty object, and anything else is kept as text.
type Payload struct {
	raw  []byte
	text bool
}

func newPayload(raw []byte) Payload {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Payload{raw: []byte("{}")}
	}
	if !json.Valid(trimmed) {
		return Payload{raw: raw, text: true}
	}
	return Payload{raw: trimmed}
}

// IsText reports whether the body was not valid JSON.
func (p Payload) IsText() bool { return p.text }

// Text returns the body as a string.
func (p Payload) Text() string { return string(p.raw) }

// Raw returns the body bytes.
func (p Payload) Raw() []byte { return p.raw }

// Decode unmarshals a JSON body into v.
func (p Payload) Decode(v any) error {
	if p.text {
		return &ParseError{Body: string(p.raw)}
	}
	return json.Unmarshal(p.raw, v)
}

// Value returns the decoded JSON (map, slice or primitive) or the text for
// non-JSON bodies.
func (p Payload) Value() any {
	if p.text {
		return string(p.raw)
	}
	var v any
	if err := json.Unmarshal(p.raw, &v); err != nil {
		return nil
	}
	return v
}

// IsEmpty reports whether the body is null or an object without keys.
func (p Payload) IsEmpty() bool {
	if p.text {
		return len(bytes.TrimSpace(p.raw)) == 0
	}
	switch v := p.Value().(type) {
	case nil:
		return true
	case map[string]any:
		return len(v) == 0
	}
	return false
}
