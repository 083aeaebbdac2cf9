package evaluation

// JERResult holds the Jaccard error rate and its per-speaker terms.
type JERResult struct {
	JER     float64 `json:"jer" yaml:"jer"`
	Defined bool    `json:"defined" yaml:"defined"`
	// MeanJaccard is averaged over reference speakers with any speech.
	MeanJaccard float64            `json:"mean_jaccard" yaml:"mean_jaccard"`
	PerSpeaker  map[string]float64 `json:"per_speaker" yaml:"per_speaker"`
}

// JER computes one minus the mean Jaccard index between each reference
// speaker's active time and that of its mapped hypothesis speaker. A
// reference speaker with no mapped partner scores 0.
func (e *Evaluator) JER() (JERResult, error) {
	al, err := e.Alignment()
	if err != nil {
		return JERResult{}, err
	}
	inv := al.Mapping.Inverse()

	speakers := e.ref.Speakers()
	inter := make([]float64, len(speakers))
	union := make([]float64, len(speakers))
	for _, f := range e.sweep() {
		for i, spk := range speakers {
			inRef := contains(f.Active[0], spk)
			h, mapped := inv[spk]
			inHyp := mapped && contains(f.Active[1], h)
			if inRef && inHyp {
				inter[i] += f.Duration
			}
			if inRef || inHyp {
				union[i] += f.Duration
			}
		}
	}

	r := JERResult{PerSpeaker: make(map[string]float64, len(speakers))}
	var sum float64
	n := 0
	for i, spk := range speakers {
		j, ok := ratio(inter[i], union[i])
		if !ok {
			continue
		}
		r.PerSpeaker[spk] = j
		sum += j
		n++
	}
	if n == 0 {
		return r, nil
	}
	r.Defined = true
	r.MeanJaccard = sum / float64(n)
	r.JER = 1 - r.MeanJaccard
	return r, nil
}
