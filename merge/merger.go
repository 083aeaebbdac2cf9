package merge

import (
	"fmt"
	"math"
	"sort"

	apperrors "github.com/kbukum/diarkit/errors"
	"github.com/kbukum/diarkit/similarity"
	"github.com/kbukum/diarkit/timeline"
)

// Defaults.
const (
	DefaultCoverageThreshold = 0.6
	DefaultPrimaryTolerance  = 4.0
)

// Origin tells where a merged segment came from.
type Origin string

const (
	OriginVoice   Origin = "voice"
	OriginPrimary Origin = "primary"
)

// Options configures a Merger. Zero thresholds select the defaults.
type Options struct {
	// CoverageThreshold is the overlap/min(duration) ratio above which two
	// same-speaker segments may be duplicates.
	CoverageThreshold float64 `mapstructure:"coverage_threshold" yaml:"coverage_threshold" json:"coverage_threshold" validate:"gte=0,lte=1"`
	PrimaryTolerance  float64 `mapstructure:"primary_tolerance" yaml:"primary_tolerance" json:"primary_tolerance" validate:"gte=0"`
	// SkipPrimaryFill disables appending uncorroborated primary segments.
	SkipPrimaryFill bool `mapstructure:"skip_primary_fill" yaml:"skip_primary_fill" json:"skip_primary_fill"`

	Duplicate *similarity.Config `mapstructure:"duplicate" yaml:"duplicate,omitempty" json:"duplicate,omitempty"`
	Primary   *similarity.Config `mapstructure:"primary" yaml:"primary,omitempty" json:"primary,omitempty"`
}

// ApplyDefaults fills zero-valued fields.
func (o *Options) ApplyDefaults() {
	if o.CoverageThreshold == 0 {
		o.CoverageThreshold = DefaultCoverageThreshold
	}
	if o.PrimaryTolerance == 0 {
		o.PrimaryTolerance = DefaultPrimaryTolerance
	}
	if o.Duplicate == nil {
		cfg := similarity.Profile(similarity.ProfileStrictDuplicate)
		o.Duplicate = &cfg
	}
	if o.Primary == nil {
		cfg := similarity.Profile(similarity.ProfileLooseOverlap)
		o.Primary = &cfg
	}
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	if math.IsNaN(o.CoverageThreshold) || o.CoverageThreshold < 0 || o.CoverageThreshold > 1 {
		return apperrors.InvalidConfig("coverage_threshold", fmt.Sprintf("coverage_threshold must be in [0, 1], got %v", o.CoverageThreshold))
	}
	if math.IsNaN(o.PrimaryTolerance) || o.PrimaryTolerance < 0 {
		return apperrors.InvalidConfig("primary_tolerance", fmt.Sprintf("primary_tolerance must be non-negative, got %v", o.PrimaryTolerance))
	}
	if err := o.Duplicate.Validate(); err != nil {
		return err
	}
	return o.Primary.Validate()
}

// FillFromPrimary reports whether uncorroborated primary segments are appended.
func (o Options) FillFromPrimary() bool { return !o.SkipPrimaryFill }

// Provenance identifies a source segment absorbed into a merged one.
type Provenance struct {
	Source string  `json:"source" yaml:"source"`
	ID     string  `json:"id,omitempty" yaml:"id,omitempty"`
	Start  float64 `json:"start" yaml:"start"`
	End    float64 `json:"end" yaml:"end"`
	Text   string  `json:"text" yaml:"text"`
}

// MergedSegment is one output segment of the corrected timeline.
type MergedSegment struct {
	timeline.Segment `yaml:",inline"`

	Origin              Origin       `json:"origin" yaml:"origin"`
	PrimaryCorroborated bool         `json:"primary_corroborated" yaml:"primary_corroborated"`
	Absorbed            []Provenance `json:"absorbed,omitempty" yaml:"absorbed,omitempty"`
}

func (m MergedSegment) provenance() Provenance {
	return Provenance{Source: m.Source, ID: m.ID, Start: m.Start, End: m.End, Text: m.Text}
}

// Result is the corrected timeline plus counters.
type Result struct {
	Segments []MergedSegment `json:"segments" yaml:"segments"`
	// Collapsed counts duplicate segments absorbed into survivors.
	Collapsed int `json:"collapsed" yaml:"collapsed"`
	// PrimaryFilled counts primary segments appended to the output.
	PrimaryFilled int `json:"primary_filled" yaml:"primary_filled"`
}

// Timeline returns the merged segments as a Timeline.
func (r *Result) Timeline() *timeline.Timeline {
	segs := make([]timeline.Segment, len(r.Segments))
	for i, m := range r.Segments {
		segs[i] = m.Segment
	}
	return timeline.MustNew(segs...)
}

// Merger collapses duplicates. It is safe for concurrent use.
type Merger struct {
	opts      Options
	duplicate *similarity.Scorer
	primary   *similarity.Scorer
}

// New validates opts and returns a Merger.
func New(opts Options) (*Merger, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Merger{
		opts:      opts,
		duplicate: similarity.New(*opts.Duplicate),
		primary:   similarity.New(*opts.Primary),
	}, nil
}

// Options returns the effective options.
func (m *Merger) Options() Options { return m.opts }

// IsDuplicate applies the duplicate rule to two segments.
func (m *Merger) IsDuplicate(a, b timeline.Segment) bool {
	if a.Speaker != b.Speaker {
		return false
	}
	shorter := min(a.Duration(), b.Duration())
	if shorter <= 0 {
		return false
	}
	if a.Overlap(b)/shorter <= m.opts.CoverageThreshold {
		return false
	}
	return m.duplicate.Match(a.Text, b.Text)
}

// Merge collapses duplicates in the union of voice-track segments. primary
// may be nil.
func (m *Merger) Merge(voice, primary *timeline.Timeline) (*Result, error) {
	if voice == nil {
		return nil, apperrors.NilTimeline("voice")
	}

	items := make([]MergedSegment, 0, voice.Len())
	for _, s := range voice.Segments() {
		items = append(items, MergedSegment{Segment: s, Origin: OriginVoice})
	}
	res := &Result{}
	items = m.collapse(items, false, &res.Collapsed)

	if primary != nil && !primary.IsEmpty() {
		var filled []MergedSegment
		items, filled = m.corroborate(items, primary)
		if m.opts.FillFromPrimary() && len(filled) > 0 {
			res.PrimaryFilled = len(filled)
			items = append(items, filled...)
			sortSegments(items)
			items = m.collapse(items, true, &res.Collapsed)
		}
	}

	res.Segments = items
	return res, nil
}

// collapse removes duplicates until none remain. Survivors absorb the
// losers' provenance.
func (m *Merger) collapse(items []MergedSegment, preferVoice bool, collapsed *int) []MergedSegment {
	sortSegments(items)
	for {
		i, j, ok := m.findDuplicate(items)
		if !ok {
			return items
		}
		keep, drop := i, j
		if !survives(items[i], items[j], preferVoice) {
			keep, drop = j, i
		}
		items[keep].Absorbed = append(items[keep].Absorbed, items[drop].provenance())
		items[keep].Absorbed = append(items[keep].Absorbed, items[drop].Absorbed...)
		items[keep].PrimaryCorroborated = items[keep].PrimaryCorroborated || items[drop].PrimaryCorroborated
		items = append(items[:drop], items[drop+1:]...)
		*collapsed++
	}
}

// findDuplicate returns the first duplicate pair in start order. Items must
// be sorted by start; only pairs that overlap in time are examined.
func (m *Merger) findDuplicate(items []MergedSegment) (int, int, bool) {
	for i := range items {
		for j := i + 1; j < len(items) && items[j].Start < items[i].End; j++ {
			if m.IsDuplicate(items[i].Segment, items[j].Segment) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// survives reports whether a is kept over b: voice origin first when
// preferVoice is set, then the longer segment, then the earlier start.
// Full ties keep a.
func survives(a, b MergedSegment, preferVoice bool) bool {
	if preferVoice && a.Origin != b.Origin {
		return a.Origin == OriginVoice
	}
	if a.Duration() != b.Duration() {
		return a.Duration() > b.Duration()
	}
	return a.Start <= b.Start
}

// corroborate flags voice segments the primary carries and returns the
// primary segments no voice segment explains.
func (m *Merger) corroborate(items []MergedSegment, primary *timeline.Timeline) ([]MergedSegment, []MergedSegment) {
	psegs := primary.Segments()
	explained := make([]bool, len(psegs))
	for i := range items {
		for k, p := range psegs {
			if p.Start > items[i].End+m.opts.PrimaryTolerance {
				break
			}
			if !timeline.WithinTolerance(p.Start, p.End, items[i].Start, items[i].End, m.opts.PrimaryTolerance) {
				continue
			}
			if m.primary.Match(items[i].Text, p.Text) {
				items[i].PrimaryCorroborated = true
				explained[k] = true
			}
		}
	}

	var filled []MergedSegment
	for k, p := range psegs {
		if explained[k] || similarity.Normalize(p.Text) == "" {
			continue
		}
		if p.Source == "" {
			p.Source = string(OriginPrimary)
		}
		filled = append(filled, MergedSegment{Segment: p, Origin: OriginPrimary})
	}
	return items, filled
}

func sortSegments(items []MergedSegment) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Start != items[j].Start {
			return items[i].Start < items[j].Start
		}
		return items[i].End < items[j].End
	})
}
