package classify

import (
	"sort"

	apperrors "github.com/kbukum/diarkit/errors"
	"github.com/kbukum/diarkit/similarity"
	"github.com/kbukum/diarkit/timeline"
)

// Label is the corroboration outcome of a candidate.
type Label string

const (
	LabelCorroboratedPrimary   Label = "corroborated_primary"
	LabelCorroboratedVoiceOnly Label = "corroborated_voice_only"
	LabelUnsupported           Label = "unsupported"
)

// SourcePrimary names the full-mix transcript in matches.
const SourcePrimary = "primary"

// Candidate is a phrase to classify.
type Candidate struct {
	ID      string  `json:"id" yaml:"id"`
	Speaker string  `json:"speaker" yaml:"speaker"`
	Text    string  `json:"text" yaml:"text"`
	Start   float64 `json:"start" yaml:"start"`
	End     float64 `json:"end" yaml:"end"`
	// HasTime is false when the candidate's times are missing or invalid.
	HasTime bool `json:"has_time" yaml:"has_time"`
}

// Match is the best corroborating segment found in one source.
type Match struct {
	Source     string            `json:"source" yaml:"source"`
	Segment    timeline.Segment  `json:"segment" yaml:"segment"`
	Similarity similarity.Result `json:"similarity" yaml:"similarity"`
}

// Classification is the labelled outcome for one candidate.
type Classification struct {
	Candidate      Candidate `json:"candidate" yaml:"candidate"`
	Label          Label     `json:"label" yaml:"label"`
	PrimaryMatched bool      `json:"primary_matched" yaml:"primary_matched"`
	VoiceMatched   bool      `json:"voice_matched" yaml:"voice_matched"`
	// PrimaryMatch and VoiceMatches hold the best match per source.
	PrimaryMatch *Match  `json:"primary_match,omitempty" yaml:"primary_match,omitempty"`
	VoiceMatches []Match `json:"voice_matches,omitempty" yaml:"voice_matches,omitempty"`
}

// Result partitions candidates by label. Input order is kept within each list.
type Result struct {
	CorroboratedPrimary   []Classification `json:"corroborated_primary" yaml:"corroborated_primary"`
	CorroboratedVoiceOnly []Classification `json:"corroborated_voice_only" yaml:"corroborated_voice_only"`
	Unsupported           []Classification `json:"unsupported" yaml:"unsupported"`
}

// Len returns the number of classified candidates.
func (r *Result) Len() int {
	return len(r.CorroboratedPrimary) + len(r.CorroboratedVoiceOnly) + len(r.Unsupported)
}

// Counts returns the size of each bucket.
func (r *Result) Counts() map[Label]int {
	return map[Label]int{
		LabelCorroboratedPrimary:   len(r.CorroboratedPrimary),
		LabelCorroboratedVoiceOnly: len(r.CorroboratedVoiceOnly),
		LabelUnsupported:           len(r.Unsupported),
	}
}

// Classifier labels candidates. It holds no per-call state and is safe for
// concurrent use.
type Classifier struct {
	opts    Options
	scorer  *similarity.Scorer
	overlap *similarity.Scorer
}

// New validates opts and returns a Classifier.
func New(opts Options) (*Classifier, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{
		opts:    opts,
		scorer:  similarity.New(*opts.Similarity),
		overlap: similarity.New(*opts.OverlapSimilarity),
	}, nil
}

// Options returns the effective options.
func (c *Classifier) Options() Options { return c.opts }

// Classify labels every candidate against the primary timeline and the named
// voice tracks.
func (c *Classifier) Classify(primary *timeline.Timeline, voice map[string]*timeline.Timeline, candidates []Candidate) (*Result, error) {
	if primary == nil {
		return nil, apperrors.NilTimeline("primary")
	}
	names, err := trackNames(voice)
	if err != nil {
		return nil, err
	}

	res := &Result{
		CorroboratedPrimary:   []Classification{},
		CorroboratedVoiceOnly: []Classification{},
		Unsupported:           []Classification{},
	}
	for _, cand := range candidates {
		cl := c.classifyOne(primary, voice, names, cand)
		switch cl.Label {
		case LabelCorroboratedPrimary:
			res.CorroboratedPrimary = append(res.CorroboratedPrimary, cl)
		case LabelCorroboratedVoiceOnly:
			res.CorroboratedVoiceOnly = append(res.CorroboratedVoiceOnly, cl)
		default:
			res.Unsupported = append(res.Unsupported, cl)
		}
	}
	return res, nil
}

func (c *Classifier) classifyOne(primary *timeline.Timeline, voice map[string]*timeline.Timeline, names []string, cand Candidate) Classification {
	cl := Classification{Candidate: cand, Label: LabelUnsupported}
	if similarity.Normalize(cand.Text) == "" {
		return cl
	}

	if m, ok := bestMatch(c.scorer, SourcePrimary, primary, cand, c.opts.PrimaryTolerance); ok {
		cl.PrimaryMatched = true
		cl.PrimaryMatch = &m
	}
	for _, name := range names {
		if m, ok := bestMatch(c.scorer, name, voice[name], cand, c.opts.VoiceTolerance); ok {
			cl.VoiceMatched = true
			cl.VoiceMatches = append(cl.VoiceMatches, m)
		}
	}

	switch {
	case cl.PrimaryMatched:
		// a primary-only match still counts as primary corroboration
		cl.Label = LabelCorroboratedPrimary
	case cl.VoiceMatched:
		cl.Label = LabelCorroboratedVoiceOnly
	}
	return cl
}

// bestMatch returns the highest scoring matching segment of tl. Ties keep
// the earliest segment.
func bestMatch(scorer *similarity.Scorer, source string, tl *timeline.Timeline, cand Candidate, tol float64) (Match, bool) {
	var segs []timeline.Segment
	if cand.HasTime {
		segs = tl.Window(cand.Start, cand.End, tol)
	} else {
		segs = tl.Segments()
	}

	var best Match
	found := false
	for _, s := range segs {
		r := scorer.Compare(cand.Text, s.Text)
		if !r.Matched {
			continue
		}
		if !found || r.Score > best.Similarity.Score {
			best = Match{Source: source, Segment: s, Similarity: r}
			found = true
		}
	}
	return best, found
}

func trackNames(voice map[string]*timeline.Timeline) ([]string, error) {
	names := make([]string, 0, len(voice))
	for name, tl := range voice {
		if tl == nil {
			return nil, apperrors.NilTimeline("voice track " + name)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
