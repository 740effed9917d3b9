package transport

import "encoding/json"

// jsonCodec marshals schema structs with encoding/json. Registering it under
// the name "json" makes handlers and clients speak the standard Connect JSON
// content type (application/json) without protobuf-generated types.
type jsonCodec struct{}

func (jsonCodec) Name() string {
	return "json"
}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
