package similarity

import (
	"fmt"
	"sort"

	apperrors "github.com/kbukum/diarkit/errors"
)

// ProfileName names a preset Config.
type ProfileName string

const (
	// ProfileStrictDuplicate decides whether two voice-track segments are
	// the same utterance.
	ProfileStrictDuplicate ProfileName = "strict_duplicate"
	// ProfileLooseOverlap decides whether the full-mix transcript carries a
	// phrase heard during simultaneous speech.
	ProfileLooseOverlap ProfileName = "loose_overlap"
	// ProfileClassification decides whether a source corroborates a
	// candidate phrase.
	ProfileClassification ProfileName = "classification"
)

var profiles = map[ProfileName]Config{
	ProfileStrictDuplicate: {
		MinSubstringRatio:    0.8,
		LevenshteinThreshold: 0.85,
		JaccardThreshold:     0.75,
		CombinedThreshold:    0.85,
		CombinedFloor:        0.6,
		LengthThresholds:     StrictLengthThresholds(),
	},
	ProfileLooseOverlap: {
		MinSubstringRatio:    0.5,
		LevenshteinThreshold: 0.70,
		JaccardThreshold:     0.5,
		CombinedThreshold:    0.65,
		CombinedFloor:        0.45,
	},
	ProfileClassification: {
		MinSubstringRatio:    0.6,
		LevenshteinThreshold: 0.75,
		JaccardThreshold:     0.6,
		CombinedThreshold:    0.7,
		CombinedFloor:        0.5,
	},
}

// Profile returns the preset Config for name. Unknown names fall back to
// ProfileClassification.
func Profile(name ProfileName) Config {
	base, ok := profiles[name]
	if !ok {
		base = profiles[ProfileClassification]
	}
	base.LevenshteinWeight = 0.6
	base.JaccardWeight = 0.4
	base.ExcludeShortTokens = true
	if base.LengthThresholds == nil {
		base.LengthThresholds = DefaultLengthThresholds()
	} else {
		base.LengthThresholds = append([]LengthThreshold(nil), base.LengthThresholds...)
	}
	return base
}

// LookupProfile is Profile for names that arrive from configuration.
func LookupProfile(name string) (Config, error) {
	if _, ok := profiles[ProfileName(name)]; !ok {
		return Config{}, apperrors.InvalidConfig("profile",
			fmt.Sprintf("unknown similarity profile %q (known: %v)", name, ProfileNames()))
	}
	return Profile(ProfileName(name)), nil
}

// ProfileNames lists the preset names in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, string(n))
	}
	sort.Strings(names)
	return names
}
