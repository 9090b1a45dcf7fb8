package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/webframe/validation"
)

// Config configures a client built with NewFromConfig.
type Config struct {
	// BaseURI is the base every request target is resolved against.
	BaseURI string `yaml:"base_uri" mapstructure:"base_uri" validate:"omitempty,url"`

	// Timeout bounds every request. Zero means no client-level timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// ContentType is one of json, text, xml, urlencoded, or empty for none.
	ContentType string `yaml:"content_type" mapstructure:"content_type" validate:"omitempty,oneof=json text xml urlencoded"`

	// UserAgent overrides the default User-Agent.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Auth holds the credentials applied at construction.
	Auth AuthConfig `yaml:"auth" mapstructure:"auth"`
}

// AuthConfig holds client credentials. Empty fields are not applied.
type AuthConfig struct {
	Username     string `yaml:"username" mapstructure:"username" validate:"required_with=Password"`
	Password     string `yaml:"password" mapstructure:"password"`
	APIKey       string `yaml:"api_key" mapstructure:"api_key"`
	APIKeyHeader string `yaml:"api_key_header" mapstructure:"api_key_header"`
	CSRFToken    string `yaml:"csrf_token" mapstructure:"csrf_token"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Auth.APIKeyHeader == "" {
		c.Auth.APIKeyHeader = DefaultAPIKeyHeader
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("httpclient: timeout must not be negative")
	}
	return validation.Validate(c)
}
