package evaluation

import (
	"sync"

	"github.com/kbukum/diarkit/alignment"
	apperrors "github.com/kbukum/diarkit/errors"
	"github.com/kbukum/diarkit/timeline"
)

// Evaluator computes diarization metrics for one reference/hypothesis pair.
// It is safe for concurrent use once constructed.
type Evaluator struct {
	ref  *timeline.Timeline
	hyp  *timeline.Timeline
	opts Options

	alignOnce sync.Once
	align     *alignment.Result
	alignErr  error

	framesOnce sync.Once
	frames     []timeline.Frame
}

// New validates opts and returns an Evaluator. Nil timelines are rejected.
func New(ref, hyp *timeline.Timeline, opts Options) (*Evaluator, error) {
	if ref == nil {
		return nil, apperrors.NilTimeline("reference")
	}
	if hyp == nil {
		return nil, apperrors.NilTimeline("hypothesis")
	}
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{ref: ref, hyp: hyp, opts: opts}, nil
}

// Options returns the effective options.
func (e *Evaluator) Options() Options { return e.opts }

// Alignment returns the speaker alignment, computing it on first call.
func (e *Evaluator) Alignment() (*alignment.Result, error) {
	e.alignOnce.Do(func() {
		e.align, e.alignErr = alignment.Align(e.ref, e.hyp, e.opts.alignmentOptions())
	})
	return e.align, e.alignErr
}

func (e *Evaluator) sweep() []timeline.Frame {
	e.framesOnce.Do(func() {
		e.frames = timeline.Sweep(e.opts.sweepResolution(), e.ref, e.hyp)
	})
	return e.frames
}

// ErrorType classifies one instant.
type ErrorType string

const (
	ErrorNone       ErrorType = "none"
	ErrorFalseAlarm ErrorType = "false_alarm"
	ErrorMiss       ErrorType = "miss"
	ErrorConfusion  ErrorType = "confusion"
)

// classifyInstant applies the DER rule to one instant. The mapped
// hypothesis set must equal the reference set exactly; unmapped hypothesis
// speakers map to nothing.
func classifyInstant(ref, hyp []string, mapping alignment.Mapping) ErrorType {
	switch {
	case len(ref) == 0 && len(hyp) == 0:
		return ErrorNone
	case len(ref) == 0:
		return ErrorFalseAlarm
	case len(hyp) == 0:
		return ErrorMiss
	}
	mapped := mapping.MapSet(hyp)
	if len(mapped) != len(ref) {
		return ErrorConfusion
	}
	for i := range ref {
		if mapped[i] != ref[i] {
			return ErrorConfusion
		}
	}
	return ErrorNone
}

// ratio returns num/den and whether it is defined.
func ratio(num, den float64) (float64, bool) {
	if den <= 0 {
		return 0, false
	}
	return num / den, true
}

func contains(sorted []string, s string) bool {
	for _, v := range sorted {
		if v == s {
			return true
		}
		if v > s {
			return false
		}
	}
	return false
}
