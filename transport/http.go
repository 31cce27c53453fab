package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/sony/gobreaker"
	"golang.org/x/net/http2"

	"github.com/kbukum/bridge/logger"
)

// errUnhealthyStatus marks 5xx responses as breaker failures without
// turning them into transport errors.
var errUnhealthyStatus = errors.New("transport: unhealthy status")

// ErrBodyTooLarge is reported when a body exceeds Config.MaxBodyBytes.
var ErrBodyTooLarge = errors.New("transport: response body too large")

// HTTP is a Transport backed by net/http.
type HTTP struct {
	client *http.Client
	config Config
	cb     *gobreaker.CircuitBreaker
	log    *logger.Logger
	nextID atomic.Uint64
}

var _ Transport = (*HTTP)(nil)

// Option configures an HTTP transport.
type Option func(*HTTP)

// WithLogger sets the logger used for breaker state changes. Without it
// the logger registered as "transport" is used.
func WithLogger(l *logger.Logger) Option {
	return func(t *HTTP) { t.log = l }
}

// WithRoundTripper replaces the network round tripper, e.g. for tests.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(t *HTTP) { t.client.Transport = rt }
}

// NewHTTP creates an HTTP transport.
func NewHTTP(cfg Config, opts ...Option) (*HTTP, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rt, err := buildRoundTripper(cfg)
	if err != nil {
		return nil, err
	}

	t := &HTTP{
		client: &http.Client{Transport: rt, Timeout: cfg.Timeout},
		config: cfg,
		log:    logger.Get("transport"),
	}
	for _, opt := range opts {
		opt(t)
	}

	if cfg.Breaker != nil {
		b := *cfg.Breaker
		t.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        b.Name,
			MaxRequests: b.MaxRequests,
			Interval:    b.Interval,
			Timeout:     b.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > b.ConsecutiveFailures
			},
			IsSuccessful: func(err error) bool {
				return err == nil || IsCancelled(err)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				t.log.Warn("circuit breaker state changed", logger.Fields(
					"breaker", name, "from", from.String(), "to", to.String(),
				))
			},
		})
	}
	return t, nil
}

func buildRoundTripper(cfg Config) (http.RoundTripper, error) {
	if cfg.Protocol == ProtocolH2C {
		dialTimeout := cfg.DialTimeout
		return &http2.Transport{
			AllowHTTP: true,
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return (&net.Dialer{Timeout: dialTimeout}).DialContext(ctx, network, addr)
			},
		}, nil
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		tr.TLSClientConfig = tlsCfg
	}
	if cfg.Protocol == ProtocolHTTP2 {
		if err := http2.ConfigureTransport(tr); err != nil {
			return nil, fmt.Errorf("transport: configure http2: %w", err)
		}
	}
	return tr, nil
}

// Prepare binds req to a new task. Default headers are applied now.
func (t *HTTP) Prepare(req *http.Request, done func(Result)) Task {
	for k, v := range t.config.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	ctx, cancel := context.WithCancel(req.Context())
	return &httpTask{
		id:     t.nextID.Add(1),
		owner:  t,
		req:    req.WithContext(ctx),
		ctx:    ctx,
		cancel: cancel,
		done:   done,
	}
}

// Client returns the underlying *http.Client for advanced use cases.
func (t *HTTP) Client() *http.Client {
	return t.client
}

// BreakerState returns the breaker state, or "disabled".
func (t *HTTP) BreakerState() string {
	if t.cb == nil {
		return "disabled"
	}
	return t.cb.State().String()
}

// Close releases idle connections.
func (t *HTTP) Close() {
	t.client.CloseIdleConnections()
}

func (t *HTTP) roundTrip(req *http.Request) (*http.Response, []byte, error) {
	if t.cb == nil {
		return t.send(req)
	}

	var (
		resp *http.Response
		body []byte
	)
	_, err := t.cb.Execute(func() (interface{}, error) {
		var sendErr error
		resp, body, sendErr = t.send(req)
		if sendErr != nil {
			return nil, sendErr
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, errUnhealthyStatus
		}
		return nil, nil
	})
	if errors.Is(err, errUnhealthyStatus) {
		err = nil
	}
	return resp, body, err
}

func (t *HTTP) send(req *http.Request) (*http.Response, []byte, error) {
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var reader io.Reader = resp.Body
	if t.config.MaxBodyBytes > 0 {
		reader = io.LimitReader(resp.Body, t.config.MaxBodyBytes+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return resp, nil, fmt.Errorf("transport: read response body: %w", err)
	}
	if t.config.MaxBodyBytes > 0 && int64(len(body)) > t.config.MaxBodyBytes {
		return resp, nil, ErrBodyTooLarge
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, body, nil
}

type httpTask struct {
	id      uint64
	owner   *HTTP
	req     *http.Request
	ctx     context.Context
	cancel  context.CancelFunc
	done    func(Result)
	once    sync.Once
	started atomic.Bool
}

func (k *httpTask) ID() uint64 { return k.id }

func (k *httpTask) Start() {
	if !k.started.CompareAndSwap(false, true) {
		return
	}
	go k.run()
}

func (k *httpTask) Cancel() {
	k.cancel()
	// A task that was never started still owes its caller a result.
	if !k.started.Load() {
		go k.finish(Result{Err: Cancelled(context.Canceled)})
	}
}

func (k *httpTask) run() {
	defer k.cancel()
	if err := k.ctx.Err(); err != nil {
		k.finish(Result{Err: k.classify(err)})
		return
	}
	resp, body, err := k.owner.roundTrip(k.req)
	if err != nil {
		k.finish(Result{Body: body, Response: resp, Err: k.classify(err)})
		return
	}
	k.finish(Result{Body: body, Response: resp})
}

// classify maps cancellations of the task context onto ErrCancelled and
// leaves every other failure untouched.
func (k *httpTask) classify(err error) error {
	if errors.Is(k.ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
		return Cancelled(err)
	}
	return err
}

func (k *httpTask) finish(res Result) {
	k.once.Do(func() { k.done(res) })
}
