package evaluation

import (
	"fmt"
	"math"

	"github.com/kbukum/diarkit/alignment"
	apperrors "github.com/kbukum/diarkit/errors"
	"github.com/kbukum/diarkit/timeline"
)

// Method selects how time is measured.
type Method string

const (
	// MethodSampled samples time on a fixed grid.
	MethodSampled Method = "sampled"
	// MethodContinuous measures exact durations.
	MethodContinuous Method = "continuous"
)

// DefaultErrorResolution is the 100 ms step used to build error intervals.
const DefaultErrorResolution = 0.1

// Options configures an Evaluator.
type Options struct {
	// Collar is echoed in the report; it is not applied.
	Collar          float64            `mapstructure:"collar" yaml:"collar" json:"collar" validate:"gte=0"`
	Resolution      float64            `mapstructure:"resolution" yaml:"resolution" json:"resolution" validate:"gte=0"`
	ErrorResolution float64            `mapstructure:"error_resolution" yaml:"error_resolution" json:"error_resolution" validate:"gte=0"`
	Strategy        alignment.Strategy `mapstructure:"strategy" yaml:"strategy" json:"strategy" validate:"omitempty,oneof=greedy hungarian"`
	Method          Method             `mapstructure:"method" yaml:"method" json:"method" validate:"omitempty,oneof=sampled continuous"`
	// Parallel computes the metric families concurrently in Report.
	Parallel bool `mapstructure:"parallel" yaml:"parallel" json:"parallel"`
}

// ApplyDefaults fills zero-valued fields.
func (o *Options) ApplyDefaults() {
	if o.Resolution == 0 {
		o.Resolution = timeline.DefaultResolution
	}
	if o.ErrorResolution == 0 {
		o.ErrorResolution = DefaultErrorResolution
	}
	if o.Strategy == "" {
		o.Strategy = alignment.StrategyGreedy
	}
	if o.Method == "" {
		o.Method = MethodSampled
	}
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	for name, v := range map[string]float64{
		"collar":           o.Collar,
		"resolution":       o.Resolution,
		"error_resolution": o.ErrorResolution,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return apperrors.InvalidConfig(name, fmt.Sprintf("%s must be a non-negative number, got %v", name, v))
		}
	}
	if o.Resolution == 0 || o.ErrorResolution == 0 {
		return apperrors.InvalidConfig("resolution", "resolutions must be positive")
	}
	if o.Method != MethodSampled && o.Method != MethodContinuous {
		return apperrors.InvalidConfig("method", fmt.Sprintf("unknown method %q", o.Method))
	}
	return o.alignmentOptions().Validate()
}

func (o Options) alignmentOptions() alignment.Options {
	return alignment.Options{
		Resolution: o.Resolution,
		Continuous: o.Method == MethodContinuous,
		Strategy:   o.Strategy,
	}
}

func (o Options) sweepResolution() float64 {
	if o.Method == MethodContinuous {
		return 0
	}
	return o.Resolution
}

func (o Options) errorSweepResolution() float64 {
	if o.Method == MethodContinuous {
		return 0
	}
	return o.ErrorResolution
}
