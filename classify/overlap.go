package classify

import (
	"github.com/kbukum/diarkit/timeline"
)

// OverlapPeer is a segment from another track that runs at the same time.
type OverlapPeer struct {
	Track   string  `json:"track" yaml:"track"`
	Speaker string  `json:"speaker" yaml:"speaker"`
	Start   float64 `json:"start" yaml:"start"`
	End     float64 `json:"end" yaml:"end"`
}

// OverlapCandidate is a voice-track segment spoken over another speaker.
type OverlapCandidate struct {
	Track   string           `json:"track" yaml:"track"`
	Segment timeline.Segment `json:"segment" yaml:"segment"`
	Peers   []OverlapPeer    `json:"peers" yaml:"peers"`
	// InPrimary reports whether the full-mix transcript carries the text.
	InPrimary    bool   `json:"in_primary" yaml:"in_primary"`
	PrimaryMatch *Match `json:"primary_match,omitempty" yaml:"primary_match,omitempty"`
}

// OverlapCandidates returns voice-track segments that fall within
// OverlapTolerance of a segment with a different speaker on another track,
// ordered by track name then time. Segments the primary is missing are the
// ones simultaneous speech swallowed.
func (c *Classifier) OverlapCandidates(primary *timeline.Timeline, voice map[string]*timeline.Timeline) ([]OverlapCandidate, error) {
	names, err := trackNames(voice)
	if err != nil {
		return nil, err
	}

	var out []OverlapCandidate
	for _, name := range names {
		for _, s := range voice[name].Segments() {
			var peers []OverlapPeer
			for _, other := range names {
				if other == name {
					continue
				}
				for _, o := range voice[other].Window(s.Start, s.End, c.opts.OverlapTolerance) {
					if o.Speaker == s.Speaker {
						continue
					}
					peers = append(peers, OverlapPeer{Track: other, Speaker: o.Speaker, Start: o.Start, End: o.End})
				}
			}
			if len(peers) == 0 {
				continue
			}

			oc := OverlapCandidate{Track: name, Segment: s, Peers: peers}
			if primary != nil && s.Text != "" {
				cand := Candidate{Text: s.Text, Start: s.Start, End: s.End, HasTime: true}
				if m, ok := bestMatch(c.overlap, SourcePrimary, primary, cand, c.opts.PrimaryTolerance); ok {
					oc.InPrimary = true
					oc.PrimaryMatch = &m
				}
			}
			out = append(out, oc)
		}
	}
	return out, nil
}
