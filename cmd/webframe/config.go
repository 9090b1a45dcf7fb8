package main

import (
	"fmt"
	"os"

	"github.com/kbukum/webframe/config"
	"github.com/kbukum/webframe/httpclient"
	"github.com/kbukum/webframe/observability"
)

const serviceName = "webframe"

// CLIConfig is the file/env configuration of the webframe command.
// Env overrides use the WEBFRAME_ prefix, e.g. WEBFRAME_CLIENT_BASE_URI.
type CLIConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Client               httpclient.Config    `yaml:"client" mapstructure:"client"`
	Telemetry            observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills in zero-value fields.
func (c *CLIConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Logging.Level == "" && !c.Debug {
		c.Logging.Level = "warn"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Client.ApplyDefaults()
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.Name
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Environment
	}
}

// Validate checks the loaded configuration.
func (c *CLIConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Client.Validate(); err != nil {
		return fmt.Errorf("config.client: %w", err)
	}
	return nil
}

func loadConfig(path string) (*CLIConfig, error) {
	cfg := &CLIConfig{}
	var opts []config.LoaderOption
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		opts = append(opts, config.WithConfigFile(path))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
