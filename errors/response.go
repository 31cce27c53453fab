package errors

import (
	stderrors "errors"
)

// ErrorResponse is the JSON structure used when a failure is reported to
// an outer surface, such as the command-line tool.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the reported failure details.
type ErrorBody struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	StatusCode int            `json:"status_code,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}

// ToResponse converts a CallError to an ErrorResponse for JSON serialization.
func (e *CallError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:       e.Code,
			Message:    e.Message,
			StatusCode: e.StatusCode,
			Details:    e.Details,
		},
	}
}

// ResponseFor converts any error into an ErrorResponse. Errors that are not
// CallErrors (transport failures) are reported with an empty code.
func ResponseFor(err error) ErrorResponse {
	if ce, ok := AsCallError(err); ok {
		return ce.ToResponse()
	}
	return ErrorResponse{Error: ErrorBody{Message: err.Error()}}
}

// IsCallError checks if an error is a CallError.
func IsCallError(err error) bool {
	var ce *CallError
	return stderrors.As(err, &ce)
}

// AsCallError converts an error to a CallError if possible.
func AsCallError(err error) (*CallError, bool) {
	var ce *CallError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
