package evaluation

import (
	"github.com/kbukum/diarkit/timeline"
)

// ErrorInterval is a maximal run of one error type.
type ErrorInterval struct {
	Start    float64   `json:"start" yaml:"start"`
	End      float64   `json:"end" yaml:"end"`
	Type     ErrorType `json:"type" yaml:"type"`
	Duration float64   `json:"duration" yaml:"duration"`
}

// ErrorSummary totals error intervals by type.
type ErrorSummary struct {
	Count    map[ErrorType]int     `json:"count" yaml:"count"`
	Duration map[ErrorType]float64 `json:"duration" yaml:"duration"`
}

// ErrorIntervals re-sweeps at ErrorResolution and coalesces consecutive
// instants of the same error type. Intervals are time ordered and never
// overlap. In sampled mode an interval ends one step after its last sample.
func (e *Evaluator) ErrorIntervals() ([]ErrorInterval, error) {
	al, err := e.Alignment()
	if err != nil {
		return nil, err
	}

	frames := timeline.Sweep(e.opts.errorSweepResolution(), e.ref, e.hyp)
	var (
		out  []ErrorInterval
		cur  ErrorInterval
		open bool
	)
	closeCurrent := func() {
		if open {
			cur.Duration = cur.End - cur.Start
			out = append(out, cur)
			open = false
		}
	}
	for _, f := range frames {
		typ := classifyInstant(f.Active[0], f.Active[1], al.Mapping)
		switch {
		case typ == ErrorNone:
			closeCurrent()
		case open && typ == cur.Type && f.Start <= cur.End+1e-9:
			cur.End = f.End()
		default:
			closeCurrent()
			cur = ErrorInterval{Start: f.Start, End: f.End(), Type: typ}
			open = true
		}
	}
	closeCurrent()
	return out, nil
}

// Summarize totals intervals by type.
func Summarize(intervals []ErrorInterval) ErrorSummary {
	s := ErrorSummary{
		Count:    make(map[ErrorType]int),
		Duration: make(map[ErrorType]float64),
	}
	for _, iv := range intervals {
		s.Count[iv.Type]++
		s.Duration[iv.Type] += iv.Duration
	}
	return s
}
