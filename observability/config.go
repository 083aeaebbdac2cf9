package observability

import (
	"time"

	apperrors "github.com/kbukum/diarkit/errors"
)

// Config configures export of engine metrics and spans. With Endpoint
// empty nothing is exported and the global no-op providers stay in place.
type Config struct {
	ServiceName    string        `yaml:"service_name" mapstructure:"service_name" json:"service_name"`
	ServiceVersion string        `yaml:"service_version" mapstructure:"service_version" json:"service_version"`
	Environment    string        `yaml:"environment" mapstructure:"environment" json:"environment"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint" json:"endpoint"` // OTLP HTTP host:port
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure" json:"insecure"`
	Interval       time.Duration `yaml:"interval" mapstructure:"interval" json:"interval"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate" json:"sample_rate" validate:"gte=0,lte=1"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "diarkit"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "dev"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
}

// Validate checks ranges.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return apperrors.InvalidConfig("telemetry.sample_rate", "sample_rate must be in [0, 1]")
	}
	if c.Interval < 0 {
		return apperrors.InvalidConfig("telemetry.interval", "interval must not be negative")
	}
	return nil
}

// Enabled reports whether an exporter endpoint is configured.
func (c *Config) Enabled() bool {
	return c.Endpoint != ""
}
