// Package message defines the request and response envelopes exchanged with
// the gitwire daemon.
//
// A Request is serialized by the codec layer and wrapped in a wire frame.
// The Response carries whatever JSON value the daemon sent back; the
// client does not constrain the daemon's reply schema.
package message

import (
	"encoding/json"
	"fmt"
)

// Request is the single message shape the client sends.
//
//	{"command": "log", "params": {"count": 5}}
type Request struct {
	Command string         `json:"command"`
	Params  map[string]any `json:"params"`
}

// NewRequest builds a request. Nil params become an empty mapping so the
// wire body always carries a "params" object.
func NewRequest(command string, params map[string]any) *Request {
	if params == nil {
		params = map[string]any{}
	}
	return &Request{Command: command, Params: params}
}

// Response wraps the daemon's reply as an opaque JSON value.
type Response struct {
	Raw json.RawMessage
}

// Decode unmarshals the reply into v.
func (r Response) Decode(v any) error {
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return fmt.Errorf("message: decode response: %w", err)
	}
	return nil
}

// Pretty renders the reply with 2-space indentation for terminal output.
func (r Response) Pretty() (string, error) {
	var v any
	if err := json.Unmarshal(r.Raw, &v); err != nil {
		return "", fmt.Errorf("message: decode response: %w", err)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
