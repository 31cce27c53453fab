package interceptor

import (
	"fmt"
	"net/http"

	"github.com/kbukum/bridge"
	"github.com/kbukum/bridge/codec"
	"github.com/kbukum/bridge/errors"
)

// Unwrap replaces an object response by its key member when that member
// is an array or object. Other responses pass through untouched.
func Unwrap(key string) bridge.ResponseInterceptor {
	return bridge.ResponseInterceptorFunc(func(_ *bridge.Call, _ *http.Response, v *codec.Value) bridge.ProcessResult {
		inner, ok := v.Get(key)
		if !ok {
			return bridge.Continue()
		}
		if nv, ok := codec.ValueOf(inner); ok {
			*v = nv
		}
		return bridge.Continue()
	})
}

// ErrorEnvelope turns unsuccessful responses whose body is an object into
// server errors carrying the message found under the first present key.
// The whole body becomes the error details.
func ErrorEnvelope(keys ...string) bridge.ResponseInterceptor {
	if len(keys) == 0 {
		keys = []string{"error", "message"}
	}
	return bridge.ResponseInterceptorFunc(func(_ *bridge.Call, resp *http.Response, v *codec.Value) bridge.ProcessResult {
		if resp == nil || resp.StatusCode < http.StatusBadRequest {
			return bridge.Continue()
		}
		fields, ok := v.Object()
		if !ok {
			return bridge.Continue()
		}
		ce := errors.Server(resp.StatusCode).WithDetails(fields)
		for _, k := range keys {
			if msg, ok := messageOf(fields[k]); ok {
				ce.Message = msg
				break
			}
		}
		return bridge.Fail(ce)
	})
}

func messageOf(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, x != ""
	case map[string]any:
		// {"error": {"message": "..."}}
		if m, ok := x["message"].(string); ok && m != "" {
			return m, true
		}
		return "", false
	case nil:
		return "", false
	default:
		return fmt.Sprint(x), true
	}
}
