// Package rpc defines the billsplit.v1.BillService Connect API: procedure
// names, messages, the JSON codec they travel with, and client/handler
// constructors.
package rpc

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// JSONCodec marshals plain Go messages with encoding/json. It is registered
// under the name "json", so Connect uses it for application/json requests.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

// Name implements connect.Codec.
func (JSONCodec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
