package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// CallError is the failure type produced by the bridge pipeline.
type CallError struct {
	// Code is the machine-readable failure kind.
	Code ErrorCode `json:"code"`
	// Message is a human-readable description.
	Message string `json:"message"`
	// StatusCode is the HTTP status of the response, 0 when none was received.
	StatusCode int `json:"status_code,omitempty"`
	// Details contains additional context for the failure.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error, if any.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *CallError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause of the error.
func (e *CallError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *CallError) WithCause(cause error) *CallError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *CallError) WithDetails(details map[string]any) *CallError {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *CallError) WithDetail(key string, value any) *CallError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a CallError with the given code and message.
func New(code ErrorCode, message string) *CallError {
	return &CallError{Code: code, Message: message}
}

// --- Constructors ---

// Encoding creates an error for parameters or routes that cannot be encoded.
func Encoding(reason string) *CallError {
	return &CallError{Code: ErrCodeEncoding, Message: reason}
}

// Serializing creates an error for a response body that cannot be decoded.
func Serializing(cause error) *CallError {
	return &CallError{
		Code: ErrCodeSerializing, Message: "response body is not a JSON array or object",
		Cause: cause,
	}
}

// Parsing creates an error for a decoded value that does not fit the result type.
func Parsing(reason string) *CallError {
	return &CallError{Code: ErrCodeParsing, Message: reason}
}

// Server creates an error for an HTTP status outside the acceptable set.
func Server(statusCode int) *CallError {
	text := http.StatusText(statusCode)
	if text == "" {
		text = "unexpected status"
	}
	return &CallError{Code: ErrCodeServer, Message: text, StatusCode: statusCode}
}

// Internal creates an error for missing or malformed response metadata.
func Internal(reason string) *CallError {
	return &CallError{Code: ErrCodeInternal, Message: reason}
}

// Cancelled creates an error for a cancelled call.
func Cancelled(cause error) *CallError {
	return &CallError{Code: ErrCodeCancelled, Message: "call was cancelled", Cause: cause}
}

// --- Predicates ---

// CodeOf returns the code of the first CallError in err's chain, or "" if
// there is none.
func CodeOf(err error) ErrorCode {
	var ce *CallError
	if stderrors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// IsEncoding checks if an error is an encoding error.
func IsEncoding(err error) bool { return CodeOf(err) == ErrCodeEncoding }

// IsSerializing checks if an error is a serializing error.
func IsSerializing(err error) bool { return CodeOf(err) == ErrCodeSerializing }

// IsParsing checks if an error is a parsing error.
func IsParsing(err error) bool { return CodeOf(err) == ErrCodeParsing }

// IsServer checks if an error is a server (status code) error.
func IsServer(err error) bool { return CodeOf(err) == ErrCodeServer }

// IsInternal checks if an error is an internal error.
func IsInternal(err error) bool { return CodeOf(err) == ErrCodeInternal }

// IsCancelled checks if an error is a cancellation error.
func IsCancelled(err error) bool { return CodeOf(err) == ErrCodeCancelled }
