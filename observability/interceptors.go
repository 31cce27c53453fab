package observability

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/bridge"
	"github.com/kbukum/bridge/codec"
	"github.com/kbukum/bridge/errors"
)

// Propagation injects the trace context of the call's context into the
// outgoing headers. A nil propagator uses the global one at send time.
func Propagation(p propagation.TextMapPropagator) bridge.RequestInterceptor {
	return bridge.RequestInterceptorFunc(func(call *bridge.Call, req *http.Request) {
		prop := p
		if prop == nil {
			prop = otel.GetTextMapPropagator()
		}
		prop.Inject(call.Context(), propagation.HeaderCarrier(req.Header))
	})
}

// Annotate adds a response event to the span carried by the call's
// context. Calls without a recording span are left alone.
func Annotate() bridge.ResponseInterceptor {
	return bridge.ResponseInterceptorFunc(func(call *bridge.Call, resp *http.Response, value *codec.Value) bridge.ProcessResult {
		span := trace.SpanFromContext(call.Context())
		if !span.IsRecording() {
			return bridge.Continue()
		}
		attrs := []attribute.KeyValue{
			attribute.String(AttrCallID, call.ID()),
			attribute.String(AttrEndpoint, call.Endpoint()),
			attribute.String(AttrMethod, call.Method()),
		}
		if call.Tag() != "" {
			attrs = append(attrs, attribute.String(AttrTag, call.Tag()))
		}
		if resp != nil {
			attrs = append(attrs, attribute.Int(AttrStatus, resp.StatusCode))
		}
		span.AddEvent("bridge.response", trace.WithAttributes(attrs...))
		return bridge.Continue()
	})
}

// Interceptor records every response that reaches the response chain.
func (m *Metrics) Interceptor() bridge.ResponseInterceptor {
	return bridge.ResponseInterceptorFunc(func(call *bridge.Call, resp *http.Response, value *codec.Value) bridge.ProcessResult {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		m.RecordResponse(call.Context(), call.Endpoint(), call.Method(), status, time.Since(call.CreatedAt()))
		return bridge.Continue()
	})
}

// Failures wraps next so every failure delivered to it is counted under
// endpoint first. next may be nil.
func (m *Metrics) Failures(endpoint string, next bridge.FailureFunc) bridge.FailureFunc {
	return func(err error, body []byte, req *http.Request, resp *http.Response) {
		ctx := context.Background()
		if req != nil {
			ctx = req.Context()
		}
		m.RecordFailure(ctx, endpoint, string(errors.CodeOf(err)))
		if next != nil {
			next(err, body, req, resp)
		}
	}
}
