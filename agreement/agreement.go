// Package agreement measures how closely several diarization services agree
// with one another.
//
// Every ordered pair (a, b) is evaluated with a as the reference and b as the
// hypothesis, so the matrix is not necessarily symmetric. Agreement is
// 1 - min(DER, 1). Pairs run concurrently on a bounded worker pool.
package agreement

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/kbukum/diarkit/errors"
	"github.com/kbukum/diarkit/evaluation"
	"github.com/kbukum/diarkit/timeline"
)

// DefaultWorkers bounds concurrent pair evaluations.
const DefaultWorkers = 4

// Options configures Compute.
type Options struct {
	Evaluation evaluation.Options `mapstructure:"evaluation" yaml:"evaluation" json:"evaluation"`
	Workers    int                `mapstructure:"workers" yaml:"workers" json:"workers" validate:"gte=0"`
}

// ApplyDefaults fills zero-valued fields.
func (o *Options) ApplyDefaults() {
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	o.Evaluation.ApplyDefaults()
}

// Pair is the comparison of one ordered service pair.
type Pair struct {
	Reference  string  `json:"reference" yaml:"reference"`
	Hypothesis string  `json:"hypothesis" yaml:"hypothesis"`
	DER        float64 `json:"der" yaml:"der"`
	JER        float64 `json:"jer" yaml:"jer"`
	Agreement  float64 `json:"agreement" yaml:"agreement"`
	Defined    bool    `json:"defined" yaml:"defined"`
}

// Result is the agreement matrix across services.
type Result struct {
	Services []string `json:"services" yaml:"services"`
	Pairs    []Pair   `json:"pairs" yaml:"pairs"`
	// Matrix[a][b] is the agreement of b measured against a. The diagonal is 1.
	Matrix map[string]map[string]float64 `json:"matrix" yaml:"matrix"`
	// Mean is each service's mean agreement over defined pairs it takes part in.
	Mean map[string]float64 `json:"mean" yaml:"mean"`
}

// Compute evaluates every ordered pair of services. At least two services
// are required.
func Compute(ctx context.Context, hyps map[string]*timeline.Timeline, opts Options) (*Result, error) {
	opts.ApplyDefaults()
	if opts.Workers < 0 {
		return nil, apperrors.InvalidConfig("workers", fmt.Sprintf("workers must be non-negative, got %d", opts.Workers))
	}
	if err := opts.Evaluation.Validate(); err != nil {
		return nil, err
	}
	if len(hyps) < 2 {
		return nil, apperrors.InvalidInput("hypotheses", "at least two services are required")
	}

	services := make([]string, 0, len(hyps))
	for name, tl := range hyps {
		if tl == nil {
			return nil, apperrors.NilTimeline(name)
		}
		services = append(services, name)
	}
	sort.Strings(services)

	var pairs []Pair
	for _, a := range services {
		for _, b := range services {
			if a != b {
				pairs = append(pairs, Pair{Reference: a, Hypothesis: b})
			}
		}
	}

	evalOpts := opts.Evaluation
	evalOpts.Parallel = false
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return evaluatePair(&pairs[i], hyps, evalOpts)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return newResult(services, pairs), nil
}

func evaluatePair(p *Pair, hyps map[string]*timeline.Timeline, opts evaluation.Options) error {
	ev, err := evaluation.New(hyps[p.Reference], hyps[p.Hypothesis], opts)
	if err != nil {
		return err
	}
	der, err := ev.DER()
	if err != nil {
		return err
	}
	jer, err := ev.JER()
	if err != nil {
		return err
	}
	p.DER, p.JER, p.Defined = der.DER, jer.JER, der.Defined
	if p.Defined {
		p.Agreement = 1 - min(der.DER, 1)
	}
	return nil
}

func newResult(services []string, pairs []Pair) *Result {
	res := &Result{
		Services: services,
		Pairs:    pairs,
		Matrix:   make(map[string]map[string]float64, len(services)),
		Mean:     make(map[string]float64, len(services)),
	}
	for _, s := range services {
		res.Matrix[s] = map[string]float64{s: 1}
	}

	sums := make(map[string]float64, len(services))
	counts := make(map[string]int, len(services))
	for _, p := range pairs {
		res.Matrix[p.Reference][p.Hypothesis] = p.Agreement
		if !p.Defined {
			continue
		}
		for _, s := range []string{p.Reference, p.Hypothesis} {
			sums[s] += p.Agreement
			counts[s]++
		}
	}
	for _, s := range services {
		if counts[s] > 0 {
			res.Mean[s] = sums[s] / float64(counts[s])
		}
	}
	return res
}
