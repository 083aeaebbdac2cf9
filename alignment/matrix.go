package alignment

import (
	"sort"

	"github.com/kbukum/diarkit/timeline"
)

// Matrix holds co-active seconds for every (reference, hypothesis) speaker pair.
type Matrix struct {
	Ref     []string    `json:"ref" yaml:"ref"`
	Hyp     []string    `json:"hyp" yaml:"hyp"`
	Overlap [][]float64 `json:"overlap" yaml:"overlap"`

	refIdx map[string]int
	hypIdx map[string]int
}

func newMatrix(ref, hyp []string) *Matrix {
	m := &Matrix{
		Ref:     ref,
		Hyp:     hyp,
		Overlap: make([][]float64, len(ref)),
		refIdx:  make(map[string]int, len(ref)),
		hypIdx:  make(map[string]int, len(hyp)),
	}
	for i, r := range ref {
		m.refIdx[r] = i
		m.Overlap[i] = make([]float64, len(hyp))
	}
	for j, h := range hyp {
		m.hypIdx[h] = j
	}
	return m
}

// At returns the co-active seconds of ref and hyp, or 0 for unknown labels.
func (m *Matrix) At(ref, hyp string) float64 {
	i, ok := m.refIdx[ref]
	if !ok {
		return 0
	}
	j, ok := m.hypIdx[hyp]
	if !ok {
		return 0
	}
	return m.Overlap[i][j]
}

// Max returns the largest cell value.
func (m *Matrix) Max() float64 {
	var best float64
	for _, row := range m.Overlap {
		for _, v := range row {
			best = max(best, v)
		}
	}
	return best
}

// Confusion sweeps ref and hyp together and accumulates co-active time.
// resolution > 0 reproduces sampling every resolution seconds; 0 uses exact
// durations.
func Confusion(ref, hyp *timeline.Timeline, resolution float64) *Matrix {
	m := newMatrix(ref.Speakers(), hyp.Speakers())
	for _, f := range timeline.Sweep(resolution, ref, hyp) {
		if len(f.Active[0]) == 0 || len(f.Active[1]) == 0 {
			continue
		}
		for _, r := range f.Active[0] {
			row := m.Overlap[m.refIdx[r]]
			for _, h := range f.Active[1] {
				row[m.hypIdx[h]] += f.Duration
			}
		}
	}
	return m
}

// Mapping maps hypothesis labels to reference labels.
type Mapping map[string]string

// Ref returns the reference label hyp is mapped to.
func (m Mapping) Ref(hyp string) (string, bool) {
	r, ok := m[hyp]
	return r, ok
}

// Inverse returns the reference-to-hypothesis view of the mapping.
func (m Mapping) Inverse() map[string]string {
	inv := make(map[string]string, len(m))
	for h, r := range m {
		inv[r] = h
	}
	return inv
}

// MapSet maps each hypothesis label through m and returns the sorted,
// de-duplicated reference labels. Unmapped labels are dropped.
func (m Mapping) MapSet(hyp []string) []string {
	var out []string
	seen := make(map[string]bool, len(hyp))
	for _, h := range hyp {
		r, ok := m[h]
		if !ok || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
