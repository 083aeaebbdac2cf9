package config

import (
	"fmt"
	"slices"

	apperrors "github.com/kbukum/diarkit/errors"
	"github.com/kbukum/diarkit/logger"
)

// ServiceConfig holds the settings every diarkit entry point shares.
// Embed it in a larger config struct with mapstructure squash:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Engine reconcile.Config `yaml:"engine" mapstructure:"engine"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name" json:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment" json:"environment"`
	Debug       bool          `yaml:"debug" mapstructure:"debug" json:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging" json:"logging"`
}

// GetServiceConfig returns the base ServiceConfig. The method is promoted
// when ServiceConfig is embedded.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration.
// Embedding structs should call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "diarkit"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	c.Logging.ApplyDefaults()
	if c.Debug {
		c.Logging.Level = "debug"
	}
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return apperrors.MissingField("name")
	}
	validEnvs := []string{"development", "staging", "production"}
	if !slices.Contains(validEnvs, c.Environment) {
		return apperrors.InvalidConfig("environment",
			fmt.Sprintf("environment must be one of %v (got: %s)", validEnvs, c.Environment))
	}
	return c.Logging.Validate()
}
