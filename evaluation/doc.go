// Package evaluation scores a hypothesis diarization against a reference.
//
// An Evaluator owns one (reference, hypothesis) pair. The speaker alignment
// and the frame sweep are computed once, on first use, and shared by every
// metric so all of them see the same mapping:
//
//   - DER: false alarm, miss and confusion time over total reference speech
//   - JER: one minus the mean per-reference-speaker Jaccard of active time
//   - per-speaker precision, recall and F1 against the mapped hypothesis speaker
//   - error intervals: contiguous runs of one error type at a coarser resolution
//   - speaker-count accuracy
//
// In MethodSampled (the default) time is sampled every Resolution seconds,
// exactly as a fixed-step loop would, but computed with an event sweep.
// MethodContinuous uses exact durations.
//
// The Collar option is accepted and echoed in the report but never applied:
// no forgiveness window is carved around segment boundaries.
//
// Ratios whose denominator is zero are reported as 0 with Defined set to
// false.
//
// # Usage
//
//	ev, err := evaluation.New(ref, hyp, evaluation.Options{})
//	if err != nil {
//	    return err
//	}
//	report, err := ev.Report(ctx)
package evaluation
