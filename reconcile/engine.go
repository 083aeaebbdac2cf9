package reconcile

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/kbukum/diarkit/agreement"
	"github.com/kbukum/diarkit/classify"
	apperrors "github.com/kbukum/diarkit/errors"
	"github.com/kbukum/diarkit/evaluation"
	"github.com/kbukum/diarkit/logger"
	"github.com/kbukum/diarkit/merge"
	"github.com/kbukum/diarkit/observability"
	"github.com/kbukum/diarkit/timeline"
)

// Source names used in diagnostics, logs and metrics.
const (
	SourceReference  = "reference"
	SourceHypothesis = "hypothesis"
	SourcePrimary    = classify.SourcePrimary
	SourceVoice      = "voice"
)

// Engine runs evaluation and reconciliation over raw segment lists. It
// holds no per-call state and is safe for concurrent use.
type Engine struct {
	cfg        Config
	log        *logger.Logger
	metrics    *observability.Metrics
	classifier *classify.Classifier
	merger     *merge.Merger
	newRunID   func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithRunIDs replaces the run ID generator.
func WithRunIDs(gen func() string) Option {
	return func(e *Engine) { e.newRunID = gen }
}

// New validates cfg, with defaults applied, and builds an Engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	classifier, err := classify.New(cfg.Classify)
	if err != nil {
		return nil, err
	}
	merger, err := merge.New(cfg.Merge)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:        cfg,
		classifier: classifier,
		merger:     merger,
		newRunID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Get("reconcile")
	}
	if e.metrics == nil {
		e.metrics = observability.NoopMetrics()
	}
	return e, nil
}

// Config returns the engine configuration with defaults applied.
func (e *Engine) Config() Config { return e.cfg }

// Diagnostics maps an input source name to what timeline construction
// accepted and dropped.
type Diagnostics map[string]timeline.Diagnostics

// Dropped returns the total number of dropped segments.
func (d Diagnostics) Dropped() int {
	n := 0
	for _, diag := range d {
		n += diag.Dropped()
	}
	return n
}

// EvaluationReport is the result of Evaluate.
type EvaluationReport struct {
	RunID       string             `json:"run_id" yaml:"run_id"`
	Report      *evaluation.Report `json:"report" yaml:"report"`
	Diagnostics Diagnostics        `json:"diagnostics" yaml:"diagnostics"`
}

// ClassificationReport is the result of Classify.
type ClassificationReport struct {
	RunID       string                 `json:"run_id" yaml:"run_id"`
	Result      *classify.Result       `json:"result" yaml:"result"`
	Counts      map[classify.Label]int `json:"counts" yaml:"counts"`
	Diagnostics Diagnostics            `json:"diagnostics" yaml:"diagnostics"`
}

// MergeReport is the result of MergeOverlaps.
type MergeReport struct {
	RunID       string        `json:"run_id" yaml:"run_id"`
	Result      *merge.Result `json:"result" yaml:"result"`
	Diagnostics Diagnostics   `json:"diagnostics" yaml:"diagnostics"`
}

// OverlapReport is the result of OverlapCandidates.
type OverlapReport struct {
	RunID       string                      `json:"run_id" yaml:"run_id"`
	Candidates  []classify.OverlapCandidate `json:"candidates" yaml:"candidates"`
	Diagnostics Diagnostics                 `json:"diagnostics" yaml:"diagnostics"`
}

// AgreementReport is the result of Agreement.
type AgreementReport struct {
	RunID       string            `json:"run_id" yaml:"run_id"`
	Result      *agreement.Result `json:"result" yaml:"result"`
	Diagnostics Diagnostics       `json:"diagnostics" yaml:"diagnostics"`
}

// call carries the per-operation state shared by every entry point.
type call struct {
	ctx   context.Context
	name  string
	runID string
	log   *logger.Logger
	op    *observability.Operation
	diag  Diagnostics
}

func (e *Engine) begin(ctx context.Context, spanName, name string) *call {
	runID := e.newRunID()
	ctx = logger.ContextWithRunID(ctx, runID)
	ctx, op := observability.BeginOperation(ctx, spanName, name, runID, e.metrics)
	return &call{
		ctx:   ctx,
		name:  name,
		runID: runID,
		log:   e.log.WithContext(ctx).WithFields(logger.Fields(logger.FieldOperation, name)),
		op:    op,
		diag:  make(Diagnostics),
	}
}

// end closes the operation and logs its outcome. fields are added to the
// success line.
func (e *Engine) end(c *call, err error, fields map[string]interface{}) {
	d := c.op.End(c.ctx, err)
	if err != nil {
		c.log.WithError(err).Error("operation failed", logger.DurationFields(c.name, d))
		return
	}
	c.log.Info("operation completed", logger.Merge(
		logger.DurationFields(c.name, d),
		logger.Fields(logger.FieldDropped, c.diag.Dropped()),
		fields,
	))
}

// build decodes one source and records what was dropped.
func (e *Engine) build(c *call, source string, raws []timeline.RawSegment, opts timeline.BuildOptions) *timeline.Timeline {
	tl, diag := timeline.Build(raws, opts)
	c.diag[source] = diag
	if n := diag.Dropped(); n > 0 {
		c.log.Warn("segments dropped", logger.Fields(
			logger.FieldSource, source,
			logger.FieldDropped, n,
			logger.FieldSegments, diag.Total,
			"non_numeric", diag.NonNumeric,
			"negative_start", diag.NegativeStart,
			"inverted", diag.Inverted,
			"empty_text", diag.EmptyText,
		))
		e.metrics.RecordDropped(c.ctx, c.name, source, n)
	}
	return tl
}

// buildTracks decodes named voice tracks in sorted name order.
func (e *Engine) buildTracks(c *call, tracks map[string][]timeline.RawSegment) map[string]*timeline.Timeline {
	names := make([]string, 0, len(tracks))
	for name := range tracks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]*timeline.Timeline, len(tracks))
	for _, name := range names {
		out[name] = e.build(c, SourceVoice+":"+name, tracks[name], timeline.BuildOptions{
			RequireText: e.cfg.requireText(),
			Source:      name,
		})
	}
	return out
}

// Evaluate scores hypothesis against reference.
func (e *Engine) Evaluate(ctx context.Context, reference, hypothesis []timeline.RawSegment) (res *EvaluationReport, err error) {
	c := e.begin(ctx, observability.SpanEvaluate, "evaluate")
	var fields map[string]interface{}
	defer func() { e.end(c, err, fields) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	ref := e.build(c, SourceReference, reference, timeline.BuildOptions{Source: SourceReference})
	hyp := e.build(c, SourceHypothesis, hypothesis, timeline.BuildOptions{Source: SourceHypothesis})

	ev, err := evaluation.New(ref, hyp, e.cfg.Evaluation)
	if err != nil {
		return nil, err
	}
	report, err := ev.Report(c.ctx)
	if err != nil {
		return nil, err
	}

	observability.SetSpanAttribute(c.ctx, "diarkit.der", report.DER.DER)
	observability.SetSpanAttribute(c.ctx, "diarkit.der_defined", report.DER.Defined)
	fields = logger.Fields(
		"der", report.DER.DER,
		"der_defined", report.DER.Defined,
		"jer", report.JER.JER,
		logger.FieldSpeakers, report.SpeakerCount.Reference,
		"error_intervals", len(report.ErrorIntervals),
	)
	return &EvaluationReport{RunID: c.runID, Report: report, Diagnostics: c.diag}, nil
}

// Classify labels each candidate by the sources that corroborate it.
// primary may be nil when no full-mix transcript exists.
func (e *Engine) Classify(ctx context.Context, primary []timeline.RawSegment, voiceTracks map[string][]timeline.RawSegment, candidates []classify.Candidate) (res *ClassificationReport, err error) {
	c := e.begin(ctx, observability.SpanClassify, "classify")
	var fields map[string]interface{}
	defer func() { e.end(c, err, fields) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	prim := e.build(c, SourcePrimary, primary, timeline.BuildOptions{
		RequireText: e.cfg.requireText(),
		Source:      SourcePrimary,
	})
	voice := e.buildTracks(c, voiceTracks)

	result, err := e.classifier.Classify(prim, voice, candidates)
	if err != nil {
		return nil, err
	}

	counts := result.Counts()
	byName := make(map[string]int, len(counts))
	for label, n := range counts {
		byName[string(label)] = n
	}
	e.metrics.RecordLabels(c.ctx, byName)
	fields = logger.Fields(
		"candidates", result.Len(),
		string(classify.LabelCorroboratedPrimary), counts[classify.LabelCorroboratedPrimary],
		string(classify.LabelCorroboratedVoiceOnly), counts[classify.LabelCorroboratedVoiceOnly],
		string(classify.LabelUnsupported), counts[classify.LabelUnsupported],
	)
	return &ClassificationReport{RunID: c.runID, Result: result, Counts: counts, Diagnostics: c.diag}, nil
}

// MergeOverlaps collapses duplicate voice-track segments and reconciles
// them with the primary transcript. voiceSegments carry their track name
// in the "source" key. primary may be nil.
func (e *Engine) MergeOverlaps(ctx context.Context, voiceSegments, primary []timeline.RawSegment) (res *MergeReport, err error) {
	c := e.begin(ctx, observability.SpanMerge, "merge")
	var fields map[string]interface{}
	defer func() { e.end(c, err, fields) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	voice := e.build(c, SourceVoice, voiceSegments, timeline.BuildOptions{
		RequireText: e.cfg.requireText(),
		Source:      SourceVoice,
	})
	var prim *timeline.Timeline
	if primary != nil {
		prim = e.build(c, SourcePrimary, primary, timeline.BuildOptions{
			RequireText: e.cfg.requireText(),
			Source:      SourcePrimary,
		})
	}

	result, err := e.merger.Merge(voice, prim)
	if err != nil {
		return nil, err
	}

	e.metrics.RecordAbsorbed(c.ctx, result.Collapsed)
	fields = logger.Fields(
		logger.FieldSegments, len(result.Segments),
		"collapsed", result.Collapsed,
		"primary_filled", result.PrimaryFilled,
	)
	return &MergeReport{RunID: c.runID, Result: result, Diagnostics: c.diag}, nil
}

// OverlapCandidates lists voice-track segments spoken over another
// speaker, flagged with whether the primary transcript carries them.
func (e *Engine) OverlapCandidates(ctx context.Context, primary []timeline.RawSegment, voiceTracks map[string][]timeline.RawSegment) (res *OverlapReport, err error) {
	c := e.begin(ctx, observability.SpanClassify, "overlaps")
	var fields map[string]interface{}
	defer func() { e.end(c, err, fields) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	prim := e.build(c, SourcePrimary, primary, timeline.BuildOptions{
		RequireText: e.cfg.requireText(),
		Source:      SourcePrimary,
	})
	voice := e.buildTracks(c, voiceTracks)

	cands, err := e.classifier.OverlapCandidates(prim, voice)
	if err != nil {
		return nil, err
	}
	fields = logger.Fields("candidates", len(cands))
	return &OverlapReport{RunID: c.runID, Candidates: cands, Diagnostics: c.diag}, nil
}

// Agreement compares every pair of named hypotheses.
func (e *Engine) Agreement(ctx context.Context, hypotheses map[string][]timeline.RawSegment) (res *AgreementReport, err error) {
	c := e.begin(ctx, observability.SpanAgreement, "agreement")
	var fields map[string]interface{}
	defer func() { e.end(c, err, fields) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	if len(hypotheses) < 2 {
		return nil, apperrors.InvalidInput("hypotheses", "at least two services are required")
	}

	names := make([]string, 0, len(hypotheses))
	for name := range hypotheses {
		names = append(names, name)
	}
	sort.Strings(names)
	tls := make(map[string]*timeline.Timeline, len(hypotheses))
	for _, name := range names {
		tls[name] = e.build(c, name, hypotheses[name], timeline.BuildOptions{Source: name})
	}

	result, err := agreement.Compute(c.ctx, tls, e.cfg.agreementOptions())
	if err != nil {
		return nil, err
	}
	fields = logger.Fields(
		"services", len(result.Services),
		"pairs", len(result.Pairs),
	)
	return &AgreementReport{RunID: c.runID, Result: result, Diagnostics: c.diag}, nil
}
