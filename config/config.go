package config

import (
	"fmt"

	"github.com/kbukum/bridge"
	"github.com/kbukum/bridge/observability"
	"github.com/kbukum/bridge/validation"
)

// Config is the file layout read by the bridge command.
//
// Example:
//
//	environment: production
//	client:
//	  base_url: https://api.example.com
//	  transport:
//	    timeout: 5s
//	auth:
//	  token: ${TOKEN}
type Config struct {
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Client      bridge.Config `yaml:"client" mapstructure:"client"`
	Auth        AuthConfig    `yaml:"auth" mapstructure:"auth"`
	Tracing     TracingConfig `yaml:"tracing" mapstructure:"tracing"`
}

// AuthConfig selects one credential for every request. Token wins over
// APIKey when both are set.
type AuthConfig struct {
	Token        string `yaml:"token" mapstructure:"token"`
	APIKey       string `yaml:"api_key" mapstructure:"api_key"`
	APIKeyHeader string `yaml:"api_key_header" mapstructure:"api_key_header"`
}

// Enabled reports whether any credential is configured.
func (a AuthConfig) Enabled() bool {
	return a.Token != "" || a.APIKey != ""
}

// TracingConfig toggles OpenTelemetry export.
type TracingConfig struct {
	Enabled                    bool `yaml:"enabled" mapstructure:"enabled"`
	observability.TracerConfig `yaml:",inline" mapstructure:",squash"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	c.Client.ApplyDefaults()

	if c.Auth.APIKey != "" && c.Auth.APIKeyHeader == "" {
		c.Auth.APIKeyHeader = "X-API-Key"
	}

	defaults := observability.DefaultTracerConfig(c.Client.Name)
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = defaults.ServiceName
	}
	if c.Tracing.ServiceVersion == "" {
		c.Tracing.ServiceVersion = defaults.ServiceVersion
	}
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = defaults.Endpoint
	}
	if c.Tracing.Enabled && c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = defaults.SampleRate
	}
	if c.Tracing.Environment == "" {
		c.Tracing.Environment = c.Environment
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if err := validation.New().
		OneOf("environment", c.Environment, []string{"development", "staging", "production"}).
		Custom(c.Tracing.SampleRate >= 0 && c.Tracing.SampleRate <= 1, "tracing.sample_rate", "must be between 0 and 1").
		Err(); err != nil {
		return err
	}
	if err := c.Client.Validate(); err != nil {
		return fmt.Errorf("client: %w", err)
	}
	return nil
}
