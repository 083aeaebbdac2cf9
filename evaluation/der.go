package evaluation

// DERResult holds diarization error rate components. Times are seconds,
// rates are percentages of Total.
type DERResult struct {
	DER     float64 `json:"der" yaml:"der"`
	Defined bool    `json:"defined" yaml:"defined"`

	Total      float64 `json:"total" yaml:"total"`
	FalseAlarm float64 `json:"false_alarm" yaml:"false_alarm"`
	Miss       float64 `json:"miss" yaml:"miss"`
	Confusion  float64 `json:"confusion" yaml:"confusion"`

	FalseAlarmRate float64 `json:"false_alarm_rate" yaml:"false_alarm_rate"`
	MissRate       float64 `json:"miss_rate" yaml:"miss_rate"`
	ConfusionRate  float64 `json:"confusion_rate" yaml:"confusion_rate"`
}

// DER computes the diarization error rate. It is undefined when the
// reference has no speech. DER may exceed 1 when the hypothesis talks over
// long reference silences.
func (e *Evaluator) DER() (DERResult, error) {
	al, err := e.Alignment()
	if err != nil {
		return DERResult{}, err
	}

	var r DERResult
	for _, f := range e.sweep() {
		if len(f.Active[0]) > 0 {
			r.Total += f.Duration
		}
		switch classifyInstant(f.Active[0], f.Active[1], al.Mapping) {
		case ErrorFalseAlarm:
			r.FalseAlarm += f.Duration
		case ErrorMiss:
			r.Miss += f.Duration
		case ErrorConfusion:
			r.Confusion += f.Duration
		}
	}

	r.DER, r.Defined = ratio(r.FalseAlarm+r.Miss+r.Confusion, r.Total)
	if r.Defined {
		r.FalseAlarmRate = 100 * r.FalseAlarm / r.Total
		r.MissRate = 100 * r.Miss / r.Total
		r.ConfusionRate = 100 * r.Confusion / r.Total
	}
	return r, nil
}
