package main

import (
	"fmt"
	"time"

	"github.com/kbukum/diarkit/config"
	apperrors "github.com/kbukum/diarkit/errors"
	"github.com/kbukum/diarkit/observability"
	"github.com/kbukum/diarkit/reconcile"
	"github.com/kbukum/diarkit/version"
)

// cliConfig is the full diarkit config file.
//
//	name: diarkit
//	shutdown_timeout: 5s
//	logging:
//	  level: info
//	engine:
//	  evaluation:
//	    strategy: hungarian
//	telemetry:
//	  endpoint: localhost:4318
type cliConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	// ShutdownTimeout bounds telemetry flushing after a command finishes.
	// Zero keeps bootstrap.DefaultGracefulTimeout.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" json:"shutdown_timeout"`

	Engine    reconcile.Config     `yaml:"engine" mapstructure:"engine" json:"engine"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry" json:"telemetry"`
}

func (c *cliConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Engine.ApplyDefaults()
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.Name
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Environment
	}
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = version.Get().Version
	}
	c.Telemetry.ApplyDefaults()
}

func (c *cliConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if c.ShutdownTimeout < 0 {
		return apperrors.InvalidConfig("shutdown_timeout", fmt.Sprintf("shutdown_timeout must not be negative, got %s", c.ShutdownTimeout))
	}
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	return c.Telemetry.Validate()
}
