package timeline

import (
	"math"
	"sort"
)

// DefaultResolution is the 10 ms sampling step used for alignment and DER.
const DefaultResolution = 0.01

// gridEpsilon absorbs floating-point noise when snapping boundaries to the grid.
const gridEpsilon = 1e-9

// Frame is an elementary stretch of time during which the active speaker set
// of every swept timeline is constant.
type Frame struct {
	// Start is the time of the first grid sample in the frame (sampled mode)
	// or the frame boundary (continuous mode).
	Start float64
	// Duration is the weight of the frame in seconds.
	Duration float64
	// Samples is the number of grid samples covered (0 in continuous mode).
	Samples int
	// Active holds, per swept timeline, the sorted active speakers.
	Active [][]string
}

// End returns Start + Duration.
func (f Frame) End() float64 { return f.Start + f.Duration }

type sweepEvent struct {
	t     float64
	tl    int
	spk   string
	delta int
}

// GridIndex returns the index of the first sample t_i = i*resolution that is >= x.
func GridIndex(x, resolution float64) int {
	if x <= 0 {
		return 0
	}
	return int(math.Ceil(x/resolution - gridEpsilon))
}

// Sweep walks the timelines over [0, max end) and returns their elementary frames.
//
// With resolution > 0 each frame is weighted by the grid samples
// t_i = i*resolution that fall inside it, so the result equals a loop that
// samples every timeline at each t_i. Frames that contain no sample are
// omitted. With resolution == 0 frames carry their exact duration.
func Sweep(resolution float64, tls ...*Timeline) []Frame {
	var maxEnd float64
	var events []sweepEvent
	for i, tl := range tls {
		if tl == nil {
			continue
		}
		if tl.maxEnd > maxEnd {
			maxEnd = tl.maxEnd
		}
		for _, s := range tl.segments {
			if s.End <= s.Start {
				continue
			}
			events = append(events,
				sweepEvent{t: s.Start, tl: i, spk: s.Speaker, delta: 1},
				sweepEvent{t: s.End, tl: i, spk: s.Speaker, delta: -1},
			)
		}
	}
	if maxEnd <= 0 {
		return nil
	}
	sort.Slice(events, func(i, j int) bool { return events[i].t < events[j].t })

	bounds := make([]float64, 0, len(events)+2)
	bounds = append(bounds, 0)
	for _, ev := range events {
		if ev.t > bounds[len(bounds)-1] {
			bounds = append(bounds, ev.t)
		}
	}
	if maxEnd > bounds[len(bounds)-1] {
		bounds = append(bounds, maxEnd)
	}

	counts := make([]map[string]int, len(tls))
	for i := range counts {
		counts[i] = make(map[string]int)
	}

	frames := make([]Frame, 0, len(bounds))
	next := 0
	for k := 0; k < len(bounds)-1; k++ {
		lo, hi := bounds[k], bounds[k+1]
		for next < len(events) && events[next].t <= lo {
			ev := events[next]
			counts[ev.tl][ev.spk] += ev.delta
			next++
		}

		f := Frame{Start: lo, Duration: hi - lo}
		if resolution > 0 {
			first, last := GridIndex(lo, resolution), GridIndex(hi, resolution)
			if last <= first {
				continue
			}
			f.Samples = last - first
			f.Start = float64(first) * resolution
			f.Duration = float64(f.Samples) * resolution
		}
		f.Active = make([][]string, len(tls))
		for i, c := range counts {
			f.Active[i] = activeSpeakers(c)
		}
		frames = append(frames, f)
	}
	return frames
}

func activeSpeakers(counts map[string]int) []string {
	var out []string
	for spk, n := range counts {
		if n > 0 {
			out = append(out, spk)
		}
	}
	sort.Strings(out)
	return out
}
