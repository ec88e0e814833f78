package restclient

import (
	"fmt"
	"time"

	"github.com/kbukum/pusherrest/validation"
)

const (
	defaultTimeout = 30 * time.Second
	defaultName    = "pusher-rest"
)

// Config configures the REST client.
type Config struct {
	// Name identifies the client in logs and health reports.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is the Pusher API host every resource path is resolved
	// against, for example "https://api-eu.pusher.com".
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,http_url"`

	// LibraryName and LibraryVersion are reported to the server on every
	// request. The version is sent as major.minor.patch.
	LibraryName    string `yaml:"library_name" mapstructure:"library_name" validate:"required"`
	LibraryVersion string `yaml:"library_version" mapstructure:"library_version" validate:"required,semver"`

	// Timeout bounds blocking calls. Defaults to 30s. Asynchronous calls
	// are bounded by their context only.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// TLS configures TLS settings for the HTTP transport.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// HTTP2 configures the transport for HTTP/2 with connection health pings.
	HTTP2 bool `yaml:"http2" mapstructure:"http2"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("restclient: %w", err)
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	return nil
}
