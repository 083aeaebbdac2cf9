package logger

import (
	"fmt"
	"slices"

	apperrors "github.com/kbukum/diarkit/errors"
)

// Output targets other than these are treated as file paths.
const (
	OutputStdout = "stdout"
	OutputStderr = "stderr"
)

// Levels lists the accepted values of Config.Level.
var Levels = []string{"trace", "debug", "info", "warn", "error", "fatal", "disabled"}

// Config contains logging configuration.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level" json:"level"`
	Format    string `yaml:"format" mapstructure:"format" json:"format"`
	Output    string `yaml:"output" mapstructure:"output" json:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color" json:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp" json:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller" json:"caller"`

	// Rotation settings apply only when Output is a file path.
	MaxSize    int  `yaml:"max_size" mapstructure:"max_size" json:"max_size"`          // megabytes
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups" json:"max_backups"` // number of backups
	MaxAge     int  `yaml:"max_age" mapstructure:"max_age" json:"max_age"`             // days
	Compress   bool `yaml:"compress" mapstructure:"compress" json:"compress"`
	LocalTime  bool `yaml:"local_time" mapstructure:"local_time" json:"local_time"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = OutputStderr
	}
	if c.MaxSize == 0 {
		c.MaxSize = 100
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
	if c.MaxAge == 0 {
		c.MaxAge = 28
	}
	c.Timestamp = true
}

// IsFile reports whether Output names a file rather than a standard stream.
func (c *Config) IsFile() bool {
	return c.Output != "" && c.Output != OutputStdout && c.Output != OutputStderr
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	if !slices.Contains(Levels, c.Level) {
		return apperrors.InvalidConfig("logging.level",
			fmt.Sprintf("logging.level must be one of %v (got: %s)", Levels, c.Level))
	}
	validFormats := []string{"json", "console", FormatPretty}
	if !slices.Contains(validFormats, c.Format) {
		return apperrors.InvalidConfig("logging.format",
			fmt.Sprintf("logging.format must be one of %v (got: %s)", validFormats, c.Format))
	}
	if c.MaxSize < 0 || c.MaxBackups < 0 || c.MaxAge < 0 {
		return apperrors.InvalidConfig("logging.max_size", "rotation limits must not be negative")
	}
	return nil
}
