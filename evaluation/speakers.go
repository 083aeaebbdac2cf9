package evaluation

// SpeakerMetrics scores one reference speaker against its mapped
// hypothesis speaker.
type SpeakerMetrics struct {
	Speaker  string `json:"speaker" yaml:"speaker"`
	MappedTo string `json:"mapped_to,omitempty" yaml:"mapped_to,omitempty"`

	TruePositive  float64 `json:"true_positive" yaml:"true_positive"`
	FalsePositive float64 `json:"false_positive" yaml:"false_positive"`
	FalseNegative float64 `json:"false_negative" yaml:"false_negative"`

	Precision        float64 `json:"precision" yaml:"precision"`
	PrecisionDefined bool    `json:"precision_defined" yaml:"precision_defined"`
	Recall           float64 `json:"recall" yaml:"recall"`
	RecallDefined    bool    `json:"recall_defined" yaml:"recall_defined"`
	F1               float64 `json:"f1" yaml:"f1"`

	// SpeakingTime is the reference speaker's active time; SharePercent is
	// its share of all reference speaking time.
	SpeakingTime float64 `json:"speaking_time" yaml:"speaking_time"`
	SharePercent float64 `json:"share_percent" yaml:"share_percent"`
}

// SpeakerCount compares the number of distinct speakers.
type SpeakerCount struct {
	Reference  int  `json:"reference" yaml:"reference"`
	Hypothesis int  `json:"hypothesis" yaml:"hypothesis"`
	Correct    bool `json:"correct" yaml:"correct"`
	// Difference is hypothesis minus reference.
	Difference int `json:"difference" yaml:"difference"`
}

// SpeakerMetrics returns precision, recall and F1 per reference speaker, in
// sorted speaker order.
func (e *Evaluator) SpeakerMetrics() ([]SpeakerMetrics, error) {
	al, err := e.Alignment()
	if err != nil {
		return nil, err
	}
	inv := al.Mapping.Inverse()
	speakers := e.ref.Speakers()

	out := make([]SpeakerMetrics, len(speakers))
	for i, spk := range speakers {
		out[i] = SpeakerMetrics{Speaker: spk, MappedTo: inv[spk]}
	}
	for _, f := range e.sweep() {
		for i := range out {
			m := &out[i]
			inRef := contains(f.Active[0], m.Speaker)
			inHyp := m.MappedTo != "" && contains(f.Active[1], m.MappedTo)
			switch {
			case inRef && inHyp:
				m.TruePositive += f.Duration
			case inRef:
				m.FalseNegative += f.Duration
			case inHyp:
				m.FalsePositive += f.Duration
			}
		}
	}

	var total float64
	for i := range out {
		m := &out[i]
		m.SpeakingTime = m.TruePositive + m.FalseNegative
		total += m.SpeakingTime
		m.Precision, m.PrecisionDefined = ratio(m.TruePositive, m.TruePositive+m.FalsePositive)
		m.Recall, m.RecallDefined = ratio(m.TruePositive, m.TruePositive+m.FalseNegative)
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
	}
	for i := range out {
		if share, ok := ratio(out[i].SpeakingTime, total); ok {
			out[i].SharePercent = 100 * share
		}
	}
	return out, nil
}

// SpeakerCount compares distinct speaker counts.
func (e *Evaluator) SpeakerCount() SpeakerCount {
	ref, hyp := e.ref.SpeakerCount(), e.hyp.SpeakerCount()
	return SpeakerCount{
		Reference:  ref,
		Hypothesis: hyp,
		Correct:    ref == hyp,
		Difference: hyp - ref,
	}
}
