package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/bridge/component"
	"github.com/kbukum/bridge/dispatch"
)

// Component wraps a Client with lifecycle management. The client and its
// callback queue are created in Start; Stop cancels in-flight calls and
// drains the queue.
type Component struct {
	config Config
	opts   []Option

	mu     sync.Mutex
	client *Client
	queue  *dispatch.Queue
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a client component. The client is built lazily in
// Start.
func NewComponent(cfg Config, opts ...Option) *Component {
	cfg.ApplyDefaults()
	return &Component{config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	return c.config.Name
}

// Start builds the client with a private callback queue unless an
// executor was supplied.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return nil
	}

	q := dispatch.NewQueue()
	opts := append([]Option{WithExecutor(q)}, c.opts...)
	client, err := New(c.config, opts...)
	if err != nil {
		_ = q.Close(context.Background())
		return err
	}
	c.client = client
	c.queue = q
	return nil
}

// Stop closes the client and drains its queue.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	client, q := c.client, c.queue
	c.client, c.queue = nil, nil
	c.mu.Unlock()

	if client == nil {
		return nil
	}
	if err := client.Close(ctx); err != nil {
		return fmt.Errorf("close client: %w", err)
	}
	return q.Close(ctx)
}

// Health reports healthy while the client is running.
func (c *Component) Health(_ context.Context) component.Health {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	if client == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if bs, ok := client.transport.(interface{ BreakerState() string }); ok && bs.BreakerState() == "open" {
		h.Status = component.StatusDegraded
		h.Message = "circuit breaker open"
	}
	return h
}

// Describe returns the component description.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.Name(),
		Type:    "http-client",
		Details: fmt.Sprintf("%s debug=%t", c.config.BaseURL, c.config.Debug),
	}
}

// Client returns the running client. Must be called after Start.
func (c *Component) Client() *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}
