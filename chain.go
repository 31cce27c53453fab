package bridge

import (
	"net/http"

	"github.com/kbukum/bridge/codec"
	"github.com/kbukum/bridge/errors"
)

// runRequestChain applies globals in order, then own, to a private copy of
// req and returns the copy.
func runRequestChain(call *Call, req *http.Request, globals []RequestInterceptor, own RequestInterceptor) (*http.Request, error) {
	out, err := cloneRequest(req)
	if err != nil {
		return nil, err
	}
	for _, ic := range globals {
		ic.ProcessRequest(call, out)
	}
	if own != nil {
		own.ProcessRequest(call, out)
	}
	return out, nil
}

// runResponseChain applies globals in order and stops at the first
// interceptor that halts or fails. own runs last and decides the result.
func runResponseChain(call *Call, resp *http.Response, value *codec.Value, globals []ResponseInterceptor, own ResponseInterceptor) ProcessResult {
	for _, ic := range globals {
		if res := ic.ProcessResponse(call, resp, value); res.Stopped() {
			return res
		}
	}
	if own != nil {
		return own.ProcessResponse(call, resp, value)
	}
	return Continue()
}

// cloneRequest copies req with its own body reader. A body without a
// working GetBody cannot be copied.
func cloneRequest(req *http.Request) (*http.Request, error) {
	out := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return out, nil
	}
	if req.GetBody == nil {
		return nil, errors.Encoding("request body cannot be copied: GetBody is not set")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, errors.Encoding("request body cannot be copied").WithCause(err)
	}
	out.Body = body
	return out, nil
}
