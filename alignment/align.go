package alignment

import (
	"fmt"
	"math"

	apperrors "github.com/kbukum/diarkit/errors"
	"github.com/kbukum/diarkit/timeline"
)

// Strategy selects how the confusion matrix becomes a mapping.
type Strategy string

const (
	StrategyGreedy    Strategy = "greedy"
	StrategyHungarian Strategy = "hungarian"
)

// Options configures Align.
type Options struct {
	// Resolution is the sampling step in seconds. Zero means
	// timeline.DefaultResolution.
	Resolution float64 `mapstructure:"resolution" yaml:"resolution" json:"resolution" validate:"gte=0"`
	// Continuous weights overlap by exact duration instead of samples.
	Continuous bool     `mapstructure:"continuous" yaml:"continuous" json:"continuous"`
	Strategy   Strategy `mapstructure:"strategy" yaml:"strategy" json:"strategy" validate:"omitempty,oneof=greedy hungarian"`
}

// ApplyDefaults fills zero-valued fields.
func (o *Options) ApplyDefaults() {
	if o.Resolution == 0 {
		o.Resolution = timeline.DefaultResolution
	}
	if o.Strategy == "" {
		o.Strategy = StrategyGreedy
	}
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	if o.Resolution < 0 || math.IsNaN(o.Resolution) || math.IsInf(o.Resolution, 0) {
		return apperrors.InvalidConfig("resolution", fmt.Sprintf("resolution must be a non-negative number, got %v", o.Resolution))
	}
	switch o.Strategy {
	case StrategyGreedy, StrategyHungarian:
		return nil
	default:
		return apperrors.InvalidConfig("strategy", fmt.Sprintf("unknown alignment strategy %q", o.Strategy))
	}
}

// SweepResolution is the resolution handed to timeline.Sweep.
func (o Options) SweepResolution() float64 {
	if o.Continuous {
		return 0
	}
	return o.Resolution
}

// Result is a speaker alignment between two timelines.
type Result struct {
	Strategy Strategy `json:"strategy" yaml:"strategy"`
	Mapping  Mapping  `json:"mapping" yaml:"mapping"`
	Matrix   *Matrix  `json:"matrix" yaml:"matrix"`
	// MatchedOverlap is the total co-active seconds of the mapped pairs.
	MatchedOverlap float64  `json:"matched_overlap" yaml:"matched_overlap"`
	UnmappedRef    []string `json:"unmapped_ref,omitempty" yaml:"unmapped_ref,omitempty"`
	UnmappedHyp    []string `json:"unmapped_hyp,omitempty" yaml:"unmapped_hyp,omitempty"`
}

// Align builds the confusion matrix of ref and hyp and maps hypothesis
// speakers onto reference speakers. A nil timeline is an error; empty
// timelines produce an empty mapping.
func Align(ref, hyp *timeline.Timeline, opts Options) (*Result, error) {
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

	m := Confusion(ref, hyp, opts.SweepResolution())
	var mapping Mapping
	if opts.Strategy == StrategyHungarian {
		mapping = hungarianMapping(m)
	} else {
		mapping = greedyMapping(m)
	}
	return newResult(opts.Strategy, m, mapping), nil
}

func newResult(strategy Strategy, m *Matrix, mapping Mapping) *Result {
	res := &Result{Strategy: strategy, Mapping: mapping, Matrix: m}
	inv := mapping.Inverse()
	for _, r := range m.Ref {
		if h, ok := inv[r]; ok {
			res.MatchedOverlap += m.At(r, h)
		} else {
			res.UnmappedRef = append(res.UnmappedRef, r)
		}
	}
	for _, h := range m.Hyp {
		if _, ok := mapping[h]; !ok {
			res.UnmappedHyp = append(res.UnmappedHyp, h)
		}
	}
	return res
}

// greedyMapping gives each reference speaker, in sorted order, the unused
// hypothesis speaker with the largest positive overlap. Ties keep the first
// hypothesis speaker in sorted order.
func greedyMapping(m *Matrix) Mapping {
	mapping := make(Mapping)
	used := make([]bool, len(m.Hyp))
	for i := range m.Ref {
		best, bestJ := 0.0, -1
		for j := range m.Hyp {
			if used[j] {
				continue
			}
			if v := m.Overlap[i][j]; v > best {
				best, bestJ = v, j
			}
		}
		if bestJ >= 0 {
			used[bestJ] = true
			mapping[m.Hyp[bestJ]] = m.Ref[i]
		}
	}
	return mapping
}

// hungarianMapping maximizes total overlap over one-to-one assignments.
func hungarianMapping(m *Matrix) Mapping {
	mapping := make(Mapping)
	n := max(len(m.Ref), len(m.Hyp))
	if n == 0 {
		return mapping
	}

	top := m.Max()
	cost := make([][]float64, n)
	for i := range cost {
		cost[i] = make([]float64, n)
		for j := range cost[i] {
			cost[i][j] = top
			if i < len(m.Ref) && j < len(m.Hyp) {
				cost[i][j] = top - m.Overlap[i][j]
			}
		}
	}

	for i, j := range assign(cost) {
		if i < len(m.Ref) && j < len(m.Hyp) && m.Overlap[i][j] > 0 {
			mapping[m.Hyp[j]] = m.Ref[i]
		}
	}
	return mapping
}

// assign solves the square minimum-cost assignment problem with the
// potentials form of Kuhn-Munkres, O(n^3). It returns the column assigned to
// each row.
func assign(cost [][]float64) []int {
	n := len(cost)
	inf := math.Inf(1)
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1) // p[j]: row matched to column j, 1-based; 0 is free
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = inf
		}
		for {
			used[j0] = true
			i0, delta, j1 := p[j0], inf, 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j], way[j] = cur, j0
				}
				if minv[j] < delta {
					delta, j1 = minv[j], j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	rows := make([]int, n)
	for j := 1; j <= n; j++ {
		if p[j] != 0 {
			rows[p[j]-1] = j - 1
		}
	}
	return rows
}
