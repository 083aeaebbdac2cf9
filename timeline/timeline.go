package timeline

import (
	"sort"
	"strings"
)

type dropReason int

const (
	dropNone dropReason = iota
	dropNonNumeric
	dropNegative
	dropInverted
	dropEmptyText
)

// BuildOptions controls how strictly raw segments are accepted.
type BuildOptions struct {
	// RequireText drops segments whose text is empty after trimming.
	// Transcript sources set it; pure diarization sources leave it off.
	RequireText bool `json:"require_text" yaml:"require_text" mapstructure:"require_text"`
	// Source, when non-empty, is stamped on segments that carry no source.
	Source string `json:"source,omitempty" yaml:"source,omitempty" mapstructure:"source"`
}

// Diagnostics counts what Build accepted and why it dropped the rest.
type Diagnostics struct {
	Total          int `json:"total" yaml:"total"`
	Accepted       int `json:"accepted" yaml:"accepted"`
	NonNumeric     int `json:"non_numeric" yaml:"non_numeric"`
	NegativeStart  int `json:"negative_start" yaml:"negative_start"`
	Inverted       int `json:"inverted" yaml:"inverted"`
	EmptyText      int `json:"empty_text" yaml:"empty_text"`
	MissingSpeaker int `json:"missing_speaker" yaml:"missing_speaker"`
}

// Dropped returns the number of rejected segments.
func (d Diagnostics) Dropped() int {
	return d.NonNumeric + d.NegativeStart + d.Inverted + d.EmptyText
}

// Add merges another set of diagnostics into d.
func (d *Diagnostics) Add(o Diagnostics) {
	d.Total += o.Total
	d.Accepted += o.Accepted
	d.NonNumeric += o.NonNumeric
	d.NegativeStart += o.NegativeStart
	d.Inverted += o.Inverted
	d.EmptyText += o.EmptyText
	d.MissingSpeaker += o.MissingSpeaker
}

func (d *Diagnostics) record(r dropReason) {
	switch r {
	case dropNonNumeric:
		d.NonNumeric++
	case dropNegative:
		d.NegativeStart++
	case dropInverted:
		d.Inverted++
	case dropEmptyText:
		d.EmptyText++
	}
}

// Timeline is an immutable, time-ordered sequence of segments.
type Timeline struct {
	segments []Segment
	speakers []string
	maxEnd   float64
}

// Build decodes raw segments into a Timeline. Malformed rows are dropped and
// counted in the returned Diagnostics; Build never fails.
func Build(raws []RawSegment, opts BuildOptions) (*Timeline, Diagnostics) {
	var diag Diagnostics
	segs := make([]Segment, 0, len(raws))
	for _, raw := range raws {
		diag.Total++
		seg, reason := raw.decode()
		if reason != dropNone {
			diag.record(reason)
			continue
		}
		if ok := accept(&seg, opts, &diag); ok {
			segs = append(segs, seg)
		}
	}
	return newTimeline(segs), diag
}

// New validates typed segments and returns a Timeline. Invalid segments are
// dropped and counted exactly as in Build.
func New(segs []Segment, opts BuildOptions) (*Timeline, Diagnostics) {
	var diag Diagnostics
	out := make([]Segment, 0, len(segs))
	for _, seg := range segs {
		diag.Total++
		if reason := validBounds(seg.Start, seg.End); reason != dropNone {
			diag.record(reason)
			continue
		}
		if ok := accept(&seg, opts, &diag); ok {
			out = append(out, seg)
		}
	}
	return newTimeline(out), diag
}

// MustNew builds a Timeline from segments that are known to be valid.
// Invalid segments are still dropped; it exists for literals in tests and examples.
func MustNew(segs ...Segment) *Timeline {
	tl, _ := New(segs, BuildOptions{})
	return tl
}

// Concat merges already-built timelines into one. Nil timelines are skipped.
func Concat(tls ...*Timeline) *Timeline {
	var segs []Segment
	for _, tl := range tls {
		if tl != nil {
			segs = append(segs, tl.segments...)
		}
	}
	return newTimeline(segs)
}

func accept(seg *Segment, opts BuildOptions, diag *Diagnostics) bool {
	seg.Text = strings.TrimSpace(seg.Text)
	if opts.RequireText && seg.Text == "" {
		diag.record(dropEmptyText)
		return false
	}
	seg.Speaker = strings.TrimSpace(seg.Speaker)
	if seg.Speaker == "" {
		seg.Speaker = UnknownSpeaker
		diag.MissingSpeaker++
	}
	if seg.Source == "" {
		seg.Source = opts.Source
	}
	if seg.Confidence != nil {
		c := *seg.Confidence
		seg.Confidence = &c
	}
	diag.Accepted++
	return true
}

func newTimeline(segs []Segment) *Timeline {
	sort.SliceStable(segs, func(i, j int) bool {
		if segs[i].Start != segs[j].Start {
			return segs[i].Start < segs[j].Start
		}
		return segs[i].End < segs[j].End
	})
	seen := make(map[string]struct{})
	tl := &Timeline{segments: segs}
	for _, s := range segs {
		if _, ok := seen[s.Speaker]; !ok {
			seen[s.Speaker] = struct{}{}
			tl.speakers = append(tl.speakers, s.Speaker)
		}
		if s.End > tl.maxEnd {
			tl.maxEnd = s.End
		}
	}
	sort.Strings(tl.speakers)
	return tl
}

// Len returns the number of segments.
func (tl *Timeline) Len() int { return len(tl.segments) }

// IsEmpty reports whether the timeline has no segments.
func (tl *Timeline) IsEmpty() bool { return len(tl.segments) == 0 }

// Segments returns a copy of the ordered segments.
func (tl *Timeline) Segments() []Segment {
	out := make([]Segment, len(tl.segments))
	copy(out, tl.segments)
	return out
}

// At returns the i-th segment.
func (tl *Timeline) At(i int) Segment { return tl.segments[i] }

// MaxEnd returns the latest segment end time (0 for an empty timeline).
func (tl *Timeline) MaxEnd() float64 { return tl.maxEnd }

// Speakers returns the sorted unique speaker labels.
func (tl *Timeline) Speakers() []string {
	out := make([]string, len(tl.speakers))
	copy(out, tl.speakers)
	return out
}

// SpeakerCount returns the number of unique speakers.
func (tl *Timeline) SpeakerCount() int { return len(tl.speakers) }

// ActiveAt returns the sorted speakers whose [start, end) interval contains t.
func (tl *Timeline) ActiveAt(t float64) []string {
	set := make(map[string]struct{})
	for _, s := range tl.segments {
		if s.Start > t {
			break
		}
		if s.Contains(t) {
			set[s.Speaker] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for spk := range set {
		out = append(out, spk)
	}
	sort.Strings(out)
	return out
}

// BySpeaker groups segments by speaker, preserving time order within each group.
func (tl *Timeline) BySpeaker() map[string][]Segment {
	out := make(map[string][]Segment, len(tl.speakers))
	for _, s := range tl.segments {
		out[s.Speaker] = append(out[s.Speaker], s)
	}
	return out
}

// Window returns the segments whose interval intersects [start-tol, end+tol].
func (tl *Timeline) Window(start, end, tol float64) []Segment {
	var out []Segment
	for _, s := range tl.segments {
		if s.Start > end+tol {
			break
		}
		if WithinTolerance(s.Start, s.End, start, end, tol) {
			out = append(out, s)
		}
	}
	return out
}

// SpeakingTime returns the total duration of each speaker's segments,
// counting overlapping segments of the same speaker once.
func (tl *Timeline) SpeakingTime() map[string]float64 {
	out := make(map[string]float64, len(tl.speakers))
	for spk, segs := range tl.BySpeaker() {
		var total, curStart, curEnd float64
		open := false
		for _, s := range segs {
			if !open || s.Start > curEnd {
				if open {
					total += curEnd - curStart
				}
				curStart, curEnd, open = s.Start, s.End, true
				continue
			}
			if s.End > curEnd {
				curEnd = s.End
			}
		}
		if open {
			total += curEnd - curStart
		}
		out[spk] = total
	}
	return out
}
