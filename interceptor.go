package bridge

import (
	"net/http"

	"github.com/kbukum/bridge/codec"
)

// RequestInterceptor mutates an outgoing request before it is sent.
type RequestInterceptor interface {
	ProcessRequest(call *Call, req *http.Request)
}

// RequestInterceptorFunc adapts a function to RequestInterceptor.
type RequestInterceptorFunc func(call *Call, req *http.Request)

// ProcessRequest calls f.
func (f RequestInterceptorFunc) ProcessRequest(call *Call, req *http.Request) {
	f(call, req)
}

// ResponseInterceptor inspects a decoded response. It may replace the
// value, halt the chain or fail the call.
type ResponseInterceptor interface {
	ProcessResponse(call *Call, resp *http.Response, value *codec.Value) ProcessResult
}

// ResponseInterceptorFunc adapts a function to ResponseInterceptor.
type ResponseInterceptorFunc func(call *Call, resp *http.Response, value *codec.Value) ProcessResult

// ProcessResponse calls f.
func (f ResponseInterceptorFunc) ProcessResponse(call *Call, resp *http.Response, value *codec.Value) ProcessResult {
	return f(call, resp, value)
}

// ProcessResult is the verdict of a response interceptor. Err takes
// precedence over Continue.
type ProcessResult struct {
	Continue bool
	Err      error
}

// Continue lets the chain proceed.
func Continue() ProcessResult {
	return ProcessResult{Continue: true}
}

// Halt stops the chain. The call ends without invoking any callback.
func Halt() ProcessResult {
	return ProcessResult{}
}

// Fail stops the chain and fails the call with err.
func Fail(err error) ProcessResult {
	return ProcessResult{Err: err}
}

// Stopped reports whether the chain must not run further interceptors.
func (r ProcessResult) Stopped() bool {
	return r.Err != nil || !r.Continue
}
