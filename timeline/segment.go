package timeline

import (
	"math"
)

// UnknownSpeaker is assigned to segments that arrive without a speaker label.
const UnknownSpeaker = "unknown"

// Segment is a speaker-attributed, optionally transcribed time range in seconds.
type Segment struct {
	// Start is the segment start time in seconds.
	Start float64 `json:"start" yaml:"start"`
	// End is the segment end time in seconds. End >= Start.
	End float64 `json:"end" yaml:"end"`
	// Speaker is the speaker label.
	Speaker string `json:"speaker" yaml:"speaker"`
	// Text is the transcribed text, if any.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
	// Confidence is the producer's confidence, if reported.
	Confidence *float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	// Source names the producer (e.g. "primary", a voice-track name).
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	// ID is the producer's segment identifier, if any.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`
}

// Duration returns End - Start.
func (s Segment) Duration() float64 { return s.End - s.Start }

// Contains reports whether t falls in the half-open interval [Start, End).
func (s Segment) Contains(t float64) bool { return s.Start <= t && t < s.End }

// Overlap returns the length of the intersection of s and o (0 if disjoint).
func (s Segment) Overlap(o Segment) float64 {
	return Overlap(s.Start, s.End, o.Start, o.End)
}

// Overlap returns the length of the intersection of [aStart,aEnd) and [bStart,bEnd).
func Overlap(aStart, aEnd, bStart, bEnd float64) float64 {
	lo := math.Max(aStart, bStart)
	hi := math.Min(aEnd, bEnd)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// WithinTolerance reports whether [aStart,aEnd] and [bStart,bEnd] intersect
// once each side of b is widened by tol seconds.
func WithinTolerance(aStart, aEnd, bStart, bEnd, tol float64) bool {
	return aStart <= bEnd+tol && aEnd >= bStart-tol
}

// validBounds reports whether start and end form a usable interval.
func validBounds(start, end float64) dropReason {
	switch {
	case math.IsNaN(start) || math.IsNaN(end) || math.IsInf(start, 0) || math.IsInf(end, 0):
		return dropNonNumeric
	case start < 0:
		return dropNegative
	case end < start:
		return dropInverted
	}
	return dropNone
}
