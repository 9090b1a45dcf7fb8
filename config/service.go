package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/webframe/logger"
)

// ServiceConfig contains the fields every webframe binary needs.
// Projects extend this by embedding it in their own config structs.
//
// Example:
//
//	type CLIConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Client httpclient.Config `yaml:"client" mapstructure:"client"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig returns the base ServiceConfig.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration.
// Override this in embedding structs and call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	// Propagate service name into logging so Init() uses the right tag.
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
// Override this in embedding structs and call c.ServiceConfig.Validate() first.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	if !slices.Contains(validEnvs, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", validEnvs, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
