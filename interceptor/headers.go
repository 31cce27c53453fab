package interceptor

import (
	"net/http"

	"github.com/kbukum/bridge"
)

// HeaderRequestID carries the call ID.
const HeaderRequestID = "X-Request-ID"

// Headers sets each header unless the request already carries it.
func Headers(headers map[string]string) bridge.RequestInterceptor {
	return bridge.RequestInterceptorFunc(func(_ *bridge.Call, req *http.Request) {
		for k, v := range headers {
			if req.Header.Get(k) == "" {
				req.Header.Set(k, v)
			}
		}
	})
}

// UserAgent sets the User-Agent header.
func UserAgent(ua string) bridge.RequestInterceptor {
	return bridge.RequestInterceptorFunc(func(_ *bridge.Call, req *http.Request) {
		req.Header.Set("User-Agent", ua)
	})
}

// RequestID sends the call ID as X-Request-ID.
func RequestID() bridge.RequestInterceptor {
	return bridge.RequestInterceptorFunc(func(call *bridge.Call, req *http.Request) {
		req.Header.Set(HeaderRequestID, call.ID())
	})
}
