package bridge

import (
	"github.com/kbukum/bridge/logger"
	"github.com/kbukum/bridge/transport"
	"github.com/kbukum/bridge/validation"
)

const (
	defaultName       = "bridge"
	defaultSuccessMin = 200
	defaultSuccessMax = 299
)

// Config configures a Client.
type Config struct {
	// Name identifies the client in logs and component summaries.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is prepended to relative routes.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// Debug logs every dispatch and completion at debug level.
	Debug bool `yaml:"debug" mapstructure:"debug"`

	// SuccessMin and SuccessMax bound the acceptable status codes. They
	// default to 200 and 299.
	SuccessMin int `yaml:"success_min" mapstructure:"success_min" validate:"gte=100,lte=599"`
	SuccessMax int `yaml:"success_max" mapstructure:"success_max" validate:"gte=100,lte=599"`

	// Transport configures the default HTTP transport. Ignored when a
	// transport is supplied with WithTransport.
	Transport transport.Config `yaml:"transport" mapstructure:"transport"`

	// Log configures the default logger. Ignored when WithLogger is used.
	Log logger.Config `yaml:"log" mapstructure:"log"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.SuccessMin == 0 {
		c.SuccessMin = defaultSuccessMin
	}
	if c.SuccessMax == 0 {
		c.SuccessMax = defaultSuccessMax
	}
	c.Transport.ApplyDefaults()
	c.Log.ApplyDefaults()
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := validation.New().
		Custom(c.SuccessMin <= c.SuccessMax, "success_min", "must not exceed success_max").
		Err(); err != nil {
		return err
	}
	if err := c.Transport.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}
