package errors

// ErrorCode represents a machine-readable failure kind.
type ErrorCode string

// Request-side failures (raised before any network activity).
const (
	// ErrCodeEncoding indicates the parameters or route could not be encoded
	// into a request.
	ErrCodeEncoding ErrorCode = "ENCODING_ERROR"
)

// Response-side failures.
const (
	// ErrCodeSerializing indicates the response body is not in the expected
	// wire shape.
	ErrCodeSerializing ErrorCode = "SERIALIZING_ERROR"
	// ErrCodeParsing indicates the decoded value does not match the result type.
	ErrCodeParsing ErrorCode = "PARSING_ERROR"
	// ErrCodeServer indicates the HTTP status is outside the acceptable set.
	ErrCodeServer ErrorCode = "SERVER_ERROR"
	// ErrCodeInternal indicates response metadata was missing or malformed.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Lifecycle failures.
const (
	// ErrCodeCancelled indicates the call was cancelled, either directly or
	// through tag-prefix cancellation.
	ErrCodeCancelled ErrorCode = "CANCELLED"
)

var knownCodes = map[ErrorCode]bool{
	ErrCodeEncoding:    true,
	ErrCodeSerializing: true,
	ErrCodeParsing:     true,
	ErrCodeServer:      true,
	ErrCodeInternal:    true,
	ErrCodeCancelled:   true,
}

// IsKnownCode reports whether code is one of the codes defined by this package.
func IsKnownCode(code ErrorCode) bool {
	return knownCodes[code]
}
