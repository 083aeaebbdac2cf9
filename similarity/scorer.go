package similarity

import (
	"fmt"
	"math"
	"sort"

	apperrors "github.com/kbukum/diarkit/errors"
)

// Method records which metric decided a match.
type Method string

const (
	MethodExact       Method = "exact"
	MethodSubstring   Method = "substring"
	MethodLevenshtein Method = "levenshtein"
	MethodJaccard     Method = "jaccard"
	MethodCombined    Method = "combined"
	MethodNone        Method = "none"
)

// shortTokenLen is the rune length at or below which tokens are excluded
// from Jaccard when Config.ExcludeShortTokens is set.
const shortTokenLen = 2

// LengthThreshold replaces the Levenshtein threshold for texts whose longer
// normalized side has at most MaxRunes runes.
type LengthThreshold struct {
	MaxRunes  int     `mapstructure:"max_runes" yaml:"max_runes" json:"max_runes" validate:"gt=0"`
	Threshold float64 `mapstructure:"threshold" yaml:"threshold" json:"threshold" validate:"gte=0,lte=1"`
}

// DefaultLengthThresholds is the adaptive Levenshtein table for the
// corroboration profiles. Edit ratios on very short strings swing wildly, so
// short text gets a looser bar.
func DefaultLengthThresholds() []LengthThreshold {
	return []LengthThreshold{
		{MaxRunes: 2, Threshold: 0.45},
		{MaxRunes: 5, Threshold: 0.55},
		{MaxRunes: 10, Threshold: 0.65},
	}
}

// StrictLengthThresholds is the adaptive table for duplicate detection. Only
// one- and two-rune text is loosened; a single changed word in a short
// phrase ("i said yes" / "i said no") must not collapse two utterances.
func StrictLengthThresholds() []LengthThreshold {
	return []LengthThreshold{
		{MaxRunes: 2, Threshold: 0.45},
		{MaxRunes: 10, Threshold: 0.8},
	}
}

// Config holds the thresholds a Scorer applies.
type Config struct {
	// MinSubstringRatio is the minimum len(shorter)/len(longer) for a
	// containment match.
	MinSubstringRatio float64 `mapstructure:"min_substring_ratio" yaml:"min_substring_ratio" json:"min_substring_ratio" validate:"gte=0,lte=1"`
	// LevenshteinThreshold applies to text longer than every adaptive entry.
	LevenshteinThreshold float64 `mapstructure:"levenshtein_threshold" yaml:"levenshtein_threshold" json:"levenshtein_threshold" validate:"gte=0,lte=1"`
	JaccardThreshold     float64 `mapstructure:"jaccard_threshold" yaml:"jaccard_threshold" json:"jaccard_threshold" validate:"gte=0,lte=1"`
	// CombinedThreshold is the bar for the weighted score; CombinedFloor is
	// the bar each sub-score must clear before the weighted score counts.
	CombinedThreshold float64 `mapstructure:"combined_threshold" yaml:"combined_threshold" json:"combined_threshold" validate:"gte=0,lte=1"`
	CombinedFloor     float64 `mapstructure:"combined_floor" yaml:"combined_floor" json:"combined_floor" validate:"gte=0,lte=1"`
	LevenshteinWeight float64 `mapstructure:"levenshtein_weight" yaml:"levenshtein_weight" json:"levenshtein_weight" validate:"gte=0"`
	JaccardWeight     float64 `mapstructure:"jaccard_weight" yaml:"jaccard_weight" json:"jaccard_weight" validate:"gte=0"`

	ExcludeShortTokens bool              `mapstructure:"exclude_short_tokens" yaml:"exclude_short_tokens" json:"exclude_short_tokens"`
	LengthThresholds   []LengthThreshold `mapstructure:"length_thresholds" yaml:"length_thresholds" json:"length_thresholds" validate:"dive"`
}

// Validate checks ranges that struct tags cannot express.
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"min_substring_ratio":   c.MinSubstringRatio,
		"levenshtein_threshold": c.LevenshteinThreshold,
		"jaccard_threshold":     c.JaccardThreshold,
		"combined_threshold":    c.CombinedThreshold,
		"combined_floor":        c.CombinedFloor,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return apperrors.InvalidConfig(name, fmt.Sprintf("%s must be in [0, 1], got %v", name, v))
		}
	}
	if c.LevenshteinWeight < 0 || c.JaccardWeight < 0 || c.LevenshteinWeight+c.JaccardWeight == 0 {
		return apperrors.InvalidConfig("levenshtein_weight", "weights must be non-negative and not both zero")
	}
	for _, lt := range c.LengthThresholds {
		if lt.MaxRunes <= 0 || lt.Threshold < 0 || lt.Threshold > 1 {
			return apperrors.InvalidConfig("length_thresholds", fmt.Sprintf("invalid entry %+v", lt))
		}
	}
	return nil
}

// Scores is the full sub-score vector of one comparison.
type Scores struct {
	Substring   float64 `json:"substring" yaml:"substring"`
	Levenshtein float64 `json:"levenshtein" yaml:"levenshtein"`
	Jaccard     float64 `json:"jaccard" yaml:"jaccard"`
	Combined    float64 `json:"combined" yaml:"combined"`
	// SimHash is reported only; it never decides a match.
	SimHash float64 `json:"simhash" yaml:"simhash"`
}

// Result is the outcome of comparing two strings.
type Result struct {
	Matched bool    `json:"matched" yaml:"matched"`
	Score   float64 `json:"score" yaml:"score"`
	Method  Method  `json:"method" yaml:"method"`
	// LevenshteinThreshold is the length-adapted bar that was applied.
	LevenshteinThreshold float64 `json:"levenshtein_threshold" yaml:"levenshtein_threshold"`
	Scores               Scores  `json:"scores" yaml:"scores"`
}

// Scorer compares strings under one Config. The zero value is not usable;
// build one with New.
type Scorer struct {
	cfg        Config
	thresholds []LengthThreshold
}

// New returns a Scorer for cfg. The adaptive table is copied and sorted by
// MaxRunes so later mutation of cfg has no effect.
func New(cfg Config) *Scorer {
	thresholds := append([]LengthThreshold(nil), cfg.LengthThresholds...)
	sort.SliceStable(thresholds, func(i, j int) bool { return thresholds[i].MaxRunes < thresholds[j].MaxRunes })
	return &Scorer{cfg: cfg, thresholds: thresholds}
}

// Config returns the scorer's configuration.
func (s *Scorer) Config() Config { return s.cfg }

// LevenshteinThresholdFor returns the Levenshtein bar for a text whose
// longer normalized side has n runes.
func (s *Scorer) LevenshteinThresholdFor(n int) float64 {
	for _, lt := range s.thresholds {
		if n <= lt.MaxRunes {
			return lt.Threshold
		}
	}
	return s.cfg.LevenshteinThreshold
}

// Compare normalizes a and b and returns the first metric, in priority
// order, that clears its threshold. The full Scores vector is always
// populated.
//
// Text that normalizes to nothing, such as "!!!", never matches. Identical
// non-empty input of that kind still scores 1 so that Compare(a, a) is 1 for
// every non-empty a.
func (s *Scorer) Compare(a, b string) Result {
	na, nb := Normalize(a), Normalize(b)
	if na == "" && a != "" && a == b {
		return Result{
			Score:  1,
			Method: MethodExact,
			Scores: Scores{Substring: 1, Levenshtein: 1, Jaccard: 1, Combined: 1, SimHash: 1},
		}
	}
	return s.CompareNormalized(na, nb)
}

// Match reports whether a and b match.
func (s *Scorer) Match(a, b string) bool {
	return s.Compare(a, b).Matched
}

// CompareNormalized is Compare for inputs already passed through Normalize.
// Empty input never matches and scores 0.
func (s *Scorer) CompareNormalized(na, nb string) Result {
	if na == "" || nb == "" {
		return Result{Method: MethodNone}
	}

	longest := max(len([]rune(na)), len([]rune(nb)))
	res := Result{LevenshteinThreshold: s.LevenshteinThresholdFor(longest)}

	minTok := 0
	if s.cfg.ExcludeShortTokens {
		minTok = shortTokenLen + 1
	}
	sc := Scores{
		Substring:   SubstringRatio(na, nb),
		Levenshtein: LevenshteinRatio(na, nb),
		Jaccard:     Jaccard(na, nb, minTok),
		SimHash:     SimHashSimilarity(na, nb),
	}
	sc.Combined = s.combine(sc.Levenshtein, sc.Jaccard)
	res.Scores = sc

	switch {
	case na == nb:
		res.Matched, res.Score, res.Method = true, 1, MethodExact
	case sc.Substring > 0 && sc.Substring >= s.cfg.MinSubstringRatio:
		res.Matched, res.Score, res.Method = true, sc.Substring, MethodSubstring
	case sc.Levenshtein >= res.LevenshteinThreshold:
		res.Matched, res.Score, res.Method = true, sc.Levenshtein, MethodLevenshtein
	case sc.Jaccard >= s.cfg.JaccardThreshold:
		res.Matched, res.Score, res.Method = true, sc.Jaccard, MethodJaccard
	case sc.Levenshtein >= s.cfg.CombinedFloor && sc.Jaccard >= s.cfg.CombinedFloor &&
		sc.Combined >= s.cfg.CombinedThreshold:
		res.Matched, res.Score, res.Method = true, sc.Combined, MethodCombined
	default:
		res.Method = MethodNone
		res.Score = max(sc.Substring, sc.Levenshtein, sc.Jaccard, sc.Combined)
	}
	return res
}

func (s *Scorer) combine(lev, jac float64) float64 {
	total := s.cfg.LevenshteinWeight + s.cfg.JaccardWeight
	if total == 0 {
		return 0
	}
	return (s.cfg.LevenshteinWeight*lev + s.cfg.JaccardWeight*jac) / total
}
