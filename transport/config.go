package transport

import (
	"fmt"
	"time"
)

// Protocol selects the wire protocol of the HTTP transport.
type Protocol string

const (
	// ProtocolHTTP1 uses net/http defaults (HTTP/2 negotiated only over the
	// default TLS settings).
	ProtocolHTTP1 Protocol = "http1"
	// ProtocolHTTP2 configures HTTP/2 over TLS even with custom TLS settings.
	ProtocolHTTP2 Protocol = "h2"
	// ProtocolH2C speaks cleartext HTTP/2 with prior knowledge.
	ProtocolH2C Protocol = "h2c"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultDialTimeout = 10 * time.Second
)

// Config configures the HTTP transport.
type Config struct {
	// Timeout bounds a whole request including reading the body. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// DialTimeout bounds connection establishment for h2c. Defaults to 10s.
	DialTimeout time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`

	// Protocol selects HTTP/1.1, HTTP/2 or h2c. Defaults to http1.
	Protocol Protocol `yaml:"protocol" mapstructure:"protocol"`

	// Headers are set on every request that does not already carry them.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// MaxBodyBytes caps the response body size. Zero means unlimited.
	MaxBodyBytes int64 `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`

	// TLS configures TLS settings.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Breaker enables a circuit breaker in front of the network. Nil disables it.
	Breaker *BreakerConfig `yaml:"breaker" mapstructure:"breaker"`
}

// BreakerConfig configures the transport circuit breaker.
type BreakerConfig struct {
	// Name identifies the breaker in state-change logs.
	Name string `yaml:"name" mapstructure:"name"`
	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32 `yaml:"max_requests" mapstructure:"max_requests"`
	// Interval is the cyclic period for clearing counts while closed.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// ConsecutiveFailures trips the breaker once exceeded.
	ConsecutiveFailures uint32 `yaml:"consecutive_failures" mapstructure:"consecutive_failures"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = defaultDialTimeout
	}
	if c.Protocol == "" {
		c.Protocol = ProtocolHTTP1
	}
	if c.Breaker != nil {
		if c.Breaker.Name == "" {
			c.Breaker.Name = "bridge-transport"
		}
		if c.Breaker.MaxRequests == 0 {
			c.Breaker.MaxRequests = 1
		}
		if c.Breaker.Timeout <= 0 {
			c.Breaker.Timeout = 60 * time.Second
		}
		if c.Breaker.ConsecutiveFailures == 0 {
			c.Breaker.ConsecutiveFailures = 5
		}
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("transport: timeout must be positive")
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("transport: max_body_bytes must not be negative")
	}
	switch c.Protocol {
	case ProtocolHTTP1, ProtocolHTTP2, ProtocolH2C:
	default:
		return fmt.Errorf("transport: unknown protocol %q", c.Protocol)
	}
	if c.Protocol == ProtocolH2C && c.TLS.IsEnabled() {
		return fmt.Errorf("transport: h2c cannot be combined with TLS settings")
	}
	return c.TLS.Validate()
}
