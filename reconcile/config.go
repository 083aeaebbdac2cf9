package reconcile

import (
	"github.com/kbukum/diarkit/agreement"
	"github.com/kbukum/diarkit/classify"
	"github.com/kbukum/diarkit/evaluation"
	"github.com/kbukum/diarkit/merge"
	"github.com/kbukum/diarkit/validation"
)

// Config groups the options of every engine operation. It is the "engine"
// section of the diarkit config file.
type Config struct {
	Evaluation evaluation.Options `mapstructure:"evaluation" yaml:"evaluation" json:"evaluation"`
	Classify   classify.Options   `mapstructure:"classify" yaml:"classify" json:"classify"`
	Merge      merge.Options      `mapstructure:"merge" yaml:"merge" json:"merge"`
	// Workers bounds concurrent pair evaluations in Agreement.
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers" validate:"gte=0,lte=256"`
	// RequireText drops transcript segments with empty text before
	// classification and merging.
	RequireText *bool `mapstructure:"require_text" yaml:"require_text,omitempty" json:"require_text,omitempty"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero-valued fields in every section.
func (c *Config) ApplyDefaults() {
	c.Evaluation.ApplyDefaults()
	c.Classify.ApplyDefaults()
	c.Merge.ApplyDefaults()
	if c.Workers == 0 {
		c.Workers = agreement.DefaultWorkers
	}
	if c.RequireText == nil {
		v := true
		c.RequireText = &v
	}
}

// Validate runs tag validation, then each section's range checks.
func (c Config) Validate() error {
	if err := validation.ValidateConfig(c); err != nil {
		return err
	}
	if err := c.Evaluation.Validate(); err != nil {
		return err
	}
	if err := c.Classify.Validate(); err != nil {
		return err
	}
	return c.Merge.Validate()
}

func (c Config) requireText() bool {
	return c.RequireText == nil || *c.RequireText
}

func (c Config) agreementOptions() agreement.Options {
	return agreement.Options{Evaluation: c.Evaluation, Workers: c.Workers}
}
