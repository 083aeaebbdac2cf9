package classify

import (
	"fmt"
	"math"

	apperrors "github.com/kbukum/diarkit/errors"
	"github.com/kbukum/diarkit/similarity"
)

// Default tolerances in seconds.
const (
	DefaultPrimaryTolerance = 2.0
	DefaultVoiceTolerance   = 2.5
	DefaultOverlapTolerance = 4.0
)

// Options configures a Classifier. Zero tolerances select the defaults.
type Options struct {
	PrimaryTolerance float64 `mapstructure:"primary_tolerance" yaml:"primary_tolerance" json:"primary_tolerance" validate:"gte=0"`
	VoiceTolerance   float64 `mapstructure:"voice_tolerance" yaml:"voice_tolerance" json:"voice_tolerance" validate:"gte=0"`
	// OverlapTolerance is the wider window used to find simultaneous speech.
	OverlapTolerance float64 `mapstructure:"overlap_tolerance" yaml:"overlap_tolerance" json:"overlap_tolerance" validate:"gte=0"`

	// Similarity decides corroboration. Nil means the
	// classification profile.
	Similarity *similarity.Config `mapstructure:"similarity" yaml:"similarity,omitempty" json:"similarity,omitempty"`
	// OverlapSimilarity decides whether the primary carries an overlap
	// candidate. Nil means the loose_overlap profile.
	OverlapSimilarity *similarity.Config `mapstructure:"overlap_similarity" yaml:"overlap_similarity,omitempty" json:"overlap_similarity,omitempty"`
}

// ApplyDefaults fills zero-valued fields.
func (o *Options) ApplyDefaults() {
	if o.PrimaryTolerance == 0 {
		o.PrimaryTolerance = DefaultPrimaryTolerance
	}
	if o.VoiceTolerance == 0 {
		o.VoiceTolerance = DefaultVoiceTolerance
	}
	if o.OverlapTolerance == 0 {
		o.OverlapTolerance = DefaultOverlapTolerance
	}
	if o.Similarity == nil {
		cfg := similarity.Profile(similarity.ProfileClassification)
		o.Similarity = &cfg
	}
	if o.OverlapSimilarity == nil {
		cfg := similarity.Profile(similarity.ProfileLooseOverlap)
		o.OverlapSimilarity = &cfg
	}
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	for name, v := range map[string]float64{
		"primary_tolerance": o.PrimaryTolerance,
		"voice_tolerance":   o.VoiceTolerance,
		"overlap_tolerance": o.OverlapTolerance,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.InvalidConfig(name, fmt.Sprintf("%s must be a non-negative number, got %v", name, v))
		}
	}
	if err := o.Similarity.Validate(); err != nil {
		return err
	}
	return o.OverlapSimilarity.Validate()
}
