package codec

import (
	"encoding/json"
	"fmt"
)

// JSONCodec uses Go's standard library encoding/json for serialization.
// Pros: human-readable, cross-language, easy to debug.
// Cons: slower due to reflection + string parsing, larger payload (field names repeated).
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes a payload. The wrapped error keeps decode failures
// distinguishable from framing and transport failures upstream.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("codec: decode json payload: %w", err)
	}
	return nil
}

func (JSONCodec) Name() string {
	return "json"
}
