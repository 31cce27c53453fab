package bridge

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/kbukum/bridge/codec"
	"github.com/kbukum/bridge/dispatch"
	"github.com/kbukum/bridge/logger"
	"github.com/kbukum/bridge/registry"
	"github.com/kbukum/bridge/transport"
)

// ErrClientClosed is reported to calls executed after Close.
var ErrClientClosed = stderrors.New("bridge: client closed")

// Client executes endpoints. It owns the base URL, the global interceptor
// lists, the transport and the task registry.
type Client struct {
	config    Config
	transport transport.Transport
	executor  dispatch.Executor
	codec     codec.Codec
	log       *logger.Logger
	debugLog  *logger.Logger
	registry  *registry.Registry
	accept    func(status int) bool

	mu                   sync.RWMutex
	baseURL              *url.URL
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor

	debug   atomic.Bool
	closed  atomic.Bool
	pending atomic.Int64
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the default HTTP transport.
func WithTransport(t transport.Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithExecutor sets where callbacks run. Defaults to dispatch.Main().
func WithExecutor(e dispatch.Executor) Option {
	return func(c *Client) { c.executor = e }
}

// WithCodec replaces the JSON codec.
func WithCodec(cd codec.Codec) Option {
	return func(c *Client) { c.codec = cd }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRegistry shares a task registry between clients.
func WithRegistry(r *registry.Registry) Option {
	return func(c *Client) { c.registry = r }
}

// WithRequestInterceptors appends global request interceptors.
func WithRequestInterceptors(ics ...RequestInterceptor) Option {
	return func(c *Client) { c.requestInterceptors = append(c.requestInterceptors, ics...) }
}

// WithResponseInterceptors appends global response interceptors.
func WithResponseInterceptors(ics ...ResponseInterceptor) Option {
	return func(c *Client) { c.responseInterceptors = append(c.responseInterceptors, ics...) }
}

// WithAcceptableStatusCodes replaces the success range with an explicit set.
func WithAcceptableStatusCodes(codes ...int) Option {
	set := make(map[int]bool, len(codes))
	for _, code := range codes {
		set[code] = true
	}
	return func(c *Client) {
		c.accept = func(status int) bool { return set[status] }
	}
}

// New creates a Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = logger.New(&cfg.Log, cfg.Name)
	}
	c.log = c.log.WithComponent("client")
	c.debugLog = c.log.AtLevel(zerolog.DebugLevel)
	logger.Register(cfg.Name, c.log)
	if c.transport == nil {
		t, err := transport.NewHTTP(cfg.Transport, transport.WithLogger(c.log))
		if err != nil {
			return nil, err
		}
		c.transport = t
	}
	if c.executor == nil {
		c.executor = dispatch.Main()
	}
	if c.codec == nil {
		c.codec = codec.JSON{}
	}
	if c.registry == nil {
		c.registry = registry.New()
	}
	if c.accept == nil {
		lo, hi := cfg.SuccessMin, cfg.SuccessMax
		c.accept = func(status int) bool { return status >= lo && status <= hi }
	}
	if err := c.SetBaseURL(cfg.BaseURL); err != nil {
		return nil, err
	}
	c.debug.Store(cfg.Debug)
	return c, nil
}

var (
	defaultOnce   sync.Once
	defaultClient *Client
)

// Default returns a shared client with default configuration, built on
// first use. Prefer passing an explicit client.
func Default() *Client {
	defaultOnce.Do(func() {
		c, err := New(Config{})
		if err != nil {
			panic(fmt.Sprintf("bridge: default client: %v", err))
		}
		defaultClient = c
	})
	return defaultClient
}

// SetBaseURL sets the URL relative routes are appended to. An empty string
// clears it.
func (c *Client) SetBaseURL(raw string) error {
	var base *url.URL
	if raw != "" {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("bridge: invalid base URL: %w", err)
		}
		if !u.IsAbs() {
			return fmt.Errorf("bridge: base URL %q is not absolute", raw)
		}
		base = u
	}
	c.mu.Lock()
	c.baseURL = base
	c.mu.Unlock()
	return nil
}

// BaseURL returns the current base URL, or "".
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// AddRequestInterceptor appends a global request interceptor.
func (c *Client) AddRequestInterceptor(ic RequestInterceptor) {
	c.mu.Lock()
	c.requestInterceptors = append(c.requestInterceptors, ic)
	c.mu.Unlock()
}

// AddResponseInterceptor appends a global response interceptor.
func (c *Client) AddResponseInterceptor(ic ResponseInterceptor) {
	c.mu.Lock()
	c.responseInterceptors = append(c.responseInterceptors, ic)
	c.mu.Unlock()
}

// SetDebugMode toggles dispatch and completion logging.
func (c *Client) SetDebugMode(on bool) {
	c.debug.Store(on)
}

// DebugMode reports whether debug logging is on.
func (c *Client) DebugMode() bool {
	return c.debug.Load()
}

// Cancel cancels every in-flight call whose tag starts with prefix and
// returns how many were cancelled. Cancelled calls fail with a cancelled
// error.
func (c *Client) Cancel(prefix string) int {
	n := c.registry.CancelPrefix(prefix)
	if n > 0 {
		c.log.Debug("cancelled calls", logger.Fields(logger.FieldTag, prefix, "count", n))
	}
	return n
}

// InFlight returns the number of calls that have not completed yet.
func (c *Client) InFlight() int {
	return int(c.pending.Load())
}

// Logger returns the client logger.
func (c *Client) Logger() *logger.Logger {
	return c.log
}

// Close rejects new calls, cancels the in-flight ones and waits until they
// have completed or ctx is done. Idle transport connections are released.
func (c *Client) Close(ctx context.Context) error {
	c.closed.Store(true)
	c.Cancel("")

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for c.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Cancel("")
		}
	}
	if closer, ok := c.transport.(interface{ Close() }); ok {
		closer.Close()
	}
	return nil
}

// snapshot returns the configuration a call runs with.
func (c *Client) snapshot() (*url.URL, []RequestInterceptor, []ResponseInterceptor) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL, slices.Clone(c.requestInterceptors), slices.Clone(c.responseInterceptors)
}

// resolveURL joins a route path with the base URL. Absolute paths ignore
// the base.
func resolveURL(base *url.URL, path string) (*url.URL, error) {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return u, nil
	}
	if base == nil {
		return nil, fmt.Errorf("relative route %q needs a base URL", path)
	}
	joined := strings.TrimSuffix(base.String(), "/") + "/" + strings.TrimPrefix(path, "/")
	u, err := url.Parse(joined)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", joined, err)
	}
	return u, nil
}
