// Package codec handles serialization of frame payloads.
//
// The gitwire wire contract fixes payloads to UTF-8 JSON, so JSON is the
// only implementation; the interface keeps the transport layer independent
// of the encoding.
package codec

// Codec turns values into frame payload bytes and back.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used when a Channel is built without an explicit one.
var Default Codec = JSONCodec{}
