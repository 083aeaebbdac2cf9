// Package reconcile is the entry point to diarkit. An Engine accepts raw
// segment lists as producers emit them, builds timelines with drop
// diagnostics, and runs evaluation, classification, overlap merging and
// cross-service agreement. Each call gets a run ID, a span, metrics and one
// summary log line.
//
//	engine, err := reconcile.New(reconcile.Config{})
//	report, err := engine.Evaluate(ctx, reference, hypothesis)
package reconcile
