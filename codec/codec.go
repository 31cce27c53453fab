package codec

import "net/http"

// Params is the parameter mapping supplied to a call.
type Params = map[string]any

// Codec encodes call parameters onto outgoing requests and decodes
// response bodies. Implementations must be safe for concurrent use.
type Codec interface {
	// Name identifies the codec in logs.
	Name() string

	// Encode writes params onto req according to its method. Empty params
	// leave req untouched. Failures are encoding errors.
	Encode(req *http.Request, params Params) error

	// Decode parses a response body into a Value. Failures are
	// serializing errors.
	Decode(data []byte) (Value, error)

	// DecodeToText renders a body as text for diagnostics. It reports
	// false when the bytes cannot be shown as text.
	DecodeToText(data []byte) (string, bool)
}
