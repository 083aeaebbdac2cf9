package evaluation

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/diarkit/alignment"
)

// Report is the full evaluation of one pair.
type Report struct {
	Options        Options            `json:"options" yaml:"options"`
	Strategy       alignment.Strategy `json:"strategy" yaml:"strategy"`
	Mapping        alignment.Mapping  `json:"mapping" yaml:"mapping"`
	UnmappedRef    []string           `json:"unmapped_ref,omitempty" yaml:"unmapped_ref,omitempty"`
	UnmappedHyp    []string           `json:"unmapped_hyp,omitempty" yaml:"unmapped_hyp,omitempty"`
	DER            DERResult          `json:"der" yaml:"der"`
	JER            JERResult          `json:"jer" yaml:"jer"`
	Speakers       []SpeakerMetrics   `json:"speakers" yaml:"speakers"`
	SpeakerCount   SpeakerCount       `json:"speaker_count" yaml:"speaker_count"`
	ErrorIntervals []ErrorInterval    `json:"error_intervals" yaml:"error_intervals"`
	ErrorSummary   ErrorSummary       `json:"error_summary" yaml:"error_summary"`
}

// Report aligns speakers, then computes every metric family. With
// Options.Parallel the families run concurrently after the alignment is in
// place. ctx only cancels between steps.
func (e *Evaluator) Report(ctx context.Context) (*Report, error) {
	al, err := e.Alignment()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// the sweep is shared, build it before forking
	e.sweep()

	r := &Report{
		Options:      e.opts,
		Strategy:     al.Strategy,
		Mapping:      al.Mapping,
		UnmappedRef:  al.UnmappedRef,
		UnmappedHyp:  al.UnmappedHyp,
		SpeakerCount: e.SpeakerCount(),
	}

	tasks := []func() error{
		func() (err error) { r.DER, err = e.DER(); return err },
		func() (err error) { r.JER, err = e.JER(); return err },
		func() (err error) { r.Speakers, err = e.SpeakerMetrics(); return err },
		func() (err error) { r.ErrorIntervals, err = e.ErrorIntervals(); return err },
	}

	if e.opts.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for _, task := range tasks {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return task()
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for _, task := range tasks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := task(); err != nil {
				return nil, err
			}
		}
	}

	if r.ErrorIntervals == nil {
		r.ErrorIntervals = []ErrorInterval{}
	}
	r.ErrorSummary = Summarize(r.ErrorIntervals)
	return r, nil
}
