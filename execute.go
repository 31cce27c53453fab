package bridge

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/bridge/codec"
	"github.com/kbukum/bridge/errors"
	"github.com/kbukum/bridge/logger"
	"github.com/kbukum/bridge/registry"
	"github.com/kbukum/bridge/transport"
)

// FailureFunc receives the error of a failed call together with the raw
// response body, the request that was sent and the response, when present.
type FailureFunc func(err error, body []byte, req *http.Request, resp *http.Response)

// CallOption configures one execution.
type CallOption func(*callSettings)

type callSettings struct {
	args      []string
	params    codec.Params
	tag       string
	onFailure FailureFunc
}

// Args supplies the route arguments that replace '#' placeholders left to
// right. The count must match the number of placeholders.
func Args(args ...any) CallOption {
	return func(s *callSettings) {
		for _, a := range args {
			s.args = append(s.args, fmt.Sprint(a))
		}
	}
}

// WithParams merges params into the call parameters.
func WithParams(params codec.Params) CallOption {
	return func(s *callSettings) {
		if s.params == nil {
			s.params = make(codec.Params, len(params))
		}
		for k, v := range params {
			s.params[k] = v
		}
	}
}

// Param sets one call parameter.
func Param(key string, value any) CallOption {
	return WithParams(codec.Params{key: value})
}

// Tag labels the call for prefix cancellation.
func Tag(tag string) CallOption {
	return func(s *callSettings) { s.tag = tag }
}

// OnFailure sets the failure callback.
func OnFailure(fn FailureFunc) CallOption {
	return func(s *callSettings) { s.onFailure = fn }
}

var allowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// Execute runs the endpoint. onSuccess or the OnFailure callback runs
// exactly once on the client's executor, unless a response interceptor
// halts the call. The returned record describes the call.
func (e *Endpoint[T]) Execute(ctx context.Context, onSuccess func(T), opts ...CallOption) *Call {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &callSettings{}
	for _, opt := range opts {
		opt(s)
	}

	c := e.Client()
	base, reqICs, respICs := c.snapshot()
	cd := e.def.codec
	if cd == nil {
		cd = c.codec
	}

	// Building
	path, buildErr := resolveRoute(e.def.route, s.args)
	var target string
	if buildErr == nil {
		u, err := resolveURL(base, path)
		if err != nil {
			buildErr = errors.Encoding(err.Error())
		} else {
			target = u.String()
		}
	}
	call := newCall(ctx, e.def, s, path, target)

	k := &continuation[T]{
		client:    c,
		call:      call,
		codec:     cd,
		after:     e.def.after,
		globals:   respICs,
		parse:     e.parse,
		onSuccess: onSuccess,
		onFailure: s.onFailure,
		started:   time.Now(),
	}
	c.pending.Add(1)

	if c.closed.Load() {
		k.fail(errors.Cancelled(ErrClientClosed), nil, nil, nil)
		return call
	}
	if buildErr != nil {
		k.fail(buildErr, nil, nil, nil)
		return call
	}
	if !isAllowedMethod(e.def.method) {
		k.fail(errors.Encoding(fmt.Sprintf("unsupported method %q", e.def.method)), nil, nil, nil)
		return call
	}

	// Encoding
	req, err := http.NewRequestWithContext(ctx, e.def.method, target, nil)
	if err != nil {
		k.fail(errors.Encoding(err.Error()).WithCause(err), nil, nil, nil)
		return call
	}
	if err := cd.Encode(req, call.params); err != nil {
		if !errors.IsEncoding(err) {
			err = errors.Encoding(err.Error()).WithCause(err)
		}
		k.fail(err, nil, req, nil)
		return call
	}

	// Intercepting(request)
	out, err := runRequestChain(call, req, reqICs, e.def.before)
	if err != nil {
		k.fail(err, nil, req, nil)
		return call
	}
	req = out

	// Sent
	k.send(req)
	return call
}

func isAllowedMethod(m string) bool {
	for _, a := range allowedMethods {
		if a == m {
			return true
		}
	}
	return false
}

// resolveRoute replaces '#' placeholders left to right.
func resolveRoute(route string, args []string) (string, error) {
	if n := strings.Count(route, "#"); n != len(args) {
		return route, errors.Encoding(fmt.Sprintf(
			"route %q has %d placeholder(s) but %d argument(s) were given", route, n, len(args)))
	}
	if len(args) == 0 {
		return route, nil
	}
	var b strings.Builder
	i := 0
	for _, r := range route {
		if r == '#' {
			b.WriteString(args[i])
			i++
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

// continuation carries the typed callbacks of one call through the
// asynchronous part of the pipeline.
type continuation[T any] struct {
	client    *Client
	call      *Call
	codec     codec.Codec
	after     ResponseInterceptor
	globals   []ResponseInterceptor
	parse     ParseFunc[T]
	onSuccess func(T)
	onFailure FailureFunc
	started   time.Time
	once      sync.Once
}

func (k *continuation[T]) send(req *http.Request) {
	c := k.client
	var (
		task transport.Task
		key  string
	)
	task = c.transport.Prepare(req, func(res transport.Result) {
		c.registry.RemoveIf(key, task)
		k.receive(req, res)
	})
	key = registry.Key(k.call.tag, task.ID())
	c.registry.Register(key, task)

	if c.debug.Load() {
		c.debugLog.Debug("dispatching call", logger.Fields(
			logger.FieldCallID, k.call.id,
			logger.FieldTag, k.call.tag,
			logger.FieldMethod, req.Method,
			logger.FieldURL, req.URL.String(),
			logger.FieldParams, k.call.params,
		))
	}
	task.Start()
}

// receive runs the response half of the state machine on the transport's
// goroutine.
func (k *continuation[T]) receive(req *http.Request, res transport.Result) {
	// Decoding
	if res.Err != nil {
		err := res.Err
		if transport.IsCancelled(err) {
			err = errors.Cancelled(err)
		}
		k.fail(err, res.Body, req, res.Response)
		return
	}
	value, err := k.codec.Decode(res.Body)
	if err != nil {
		if !errors.IsSerializing(err) {
			err = errors.Serializing(err)
		}
		k.fail(err, res.Body, req, res.Response)
		return
	}

	// Intercepting(response)
	verdict := runResponseChain(k.call, res.Response, &value, k.globals, k.after)

	// Validating
	if verdict.Err != nil {
		k.fail(verdict.Err, res.Body, req, res.Response)
		return
	}
	if !verdict.Continue {
		k.halt(res)
		return
	}
	if res.Response == nil {
		k.fail(errors.Internal("transport returned no response"), res.Body, req, nil)
		return
	}
	if status := res.Response.StatusCode; !k.client.accept(status) {
		k.fail(errors.Server(status).WithDetail("url", req.URL.String()), res.Body, req, res.Response)
		return
	}

	// Parsing
	result, err := k.parse(value.Raw())
	if err != nil {
		k.fail(asParsing(err), res.Body, req, res.Response)
		return
	}
	k.succeed(result, res)
}

func (k *continuation[T]) succeed(result T, res transport.Result) {
	k.complete(func() {
		k.logCompletion(res.Response, res.Body, nil)
		if k.onSuccess != nil {
			k.onSuccess(result)
		}
	})
}

func (k *continuation[T]) fail(err error, body []byte, req *http.Request, resp *http.Response) {
	k.complete(func() {
		k.logCompletion(resp, body, err)
		if k.onFailure != nil {
			k.onFailure(err, body, req, resp)
		}
	})
}

// halt ends a call vetoed by a response interceptor.
func (k *continuation[T]) halt(res transport.Result) {
	k.once.Do(func() {
		defer k.client.pending.Add(-1)
		if k.client.debug.Load() {
			k.client.debugLog.Debug("call halted by interceptor", logger.Fields(
				logger.FieldCallID, k.call.id,
				logger.FieldTag, k.call.tag,
				logger.FieldStatus, statusOf(res.Response),
			))
		}
	})
}

// complete posts fn to the executor at most once per call.
func (k *continuation[T]) complete(fn func()) {
	k.once.Do(func() {
		err := k.client.executor.Post(func() {
			defer k.client.pending.Add(-1)
			fn()
		})
		if err != nil {
			k.client.pending.Add(-1)
			k.client.log.Warn("callback dropped", logger.Fields(
				logger.FieldCallID, k.call.id,
				logger.FieldError, err.Error(),
			))
		}
	})
}

func (k *continuation[T]) logCompletion(resp *http.Response, body []byte, err error) {
	if !k.client.debug.Load() {
		return
	}
	fields := logger.MergeWithDuration(logger.Fields(
		logger.FieldCallID, k.call.id,
		logger.FieldTag, k.call.tag,
		logger.FieldMethod, k.call.method,
		logger.FieldURL, k.call.url,
		logger.FieldStatus, statusOf(resp),
	), time.Since(k.started))
	if text, ok := k.codec.DecodeToText(body); ok && text != "" {
		fields[logger.FieldBody] = text
	}
	if err != nil {
		fields[logger.FieldError] = err.Error()
		k.client.debugLog.Debug("call failed", fields)
		return
	}
	k.client.debugLog.Debug("call completed", fields)
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
