package sparrow

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Payload is an opaque JSON document relayed between the edge and the
// coordinator. It is kept as raw bytes so that forwarding never reorders
// keys, re-encodes numbers or otherwise mutates what the client sent.
type Payload = json.RawMessage

// ParseObject validates that data is a single JSON object and returns it
// unchanged. An empty object is valid.
func ParseObject(data []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidPayload)
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidPayload, describe(trimmed[0]))
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidPayload)
	}

	return Payload(data), nil
}

// ParseValue validates that data is any single JSON value.
func ParseValue(data []byte) (Payload, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("malformed JSON (%d bytes)", len(data))
	}

	return Payload(data), nil
}

func describe(first byte) string {
	switch first {
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "non-object value"
	}
}
