package ledgerrpc

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// codecName is registered for the application/json and
// application/connect+json content types.
const codecName = "json"

// jsonCodec marshals the plain Go message structs in this package.
// It replaces connect's protojson codec, which only accepts proto.Message.
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// WithJSON returns the option every handler and client in this package
// needs. It is applied automatically by the constructors below.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
