// Package timeline provides the canonical segment and timeline types shared
// by the evaluation and reconciliation engines.
//
// Raw segment lists arrive from several producers (full-mix transcripts,
// per-speaker voice tracks, diarization sidecars, LLM-authored tables) with
// slightly different schemas. Build tolerates that drift, drops malformed
// rows with a diagnostic count instead of failing, and returns an immutable,
// time-ordered Timeline.
//
// # Usage
//
//	tl, diag := timeline.Build(raws, timeline.BuildOptions{})
//	if diag.Dropped() > 0 {
//	    log.Warn("dropped segments", logger.Fields("count", diag.Dropped()))
//	}
//	speakers := tl.ActiveAt(12.5)
//
// # Sweeping
//
// Sweep walks one or more timelines in a single pass over their sorted
// boundaries and yields elementary frames with the active speaker set of
// each timeline. With a positive resolution every frame is weighted by the
// number of grid samples it contains, which reproduces a fixed-step sampling
// loop exactly without visiting every sample.
package timeline
