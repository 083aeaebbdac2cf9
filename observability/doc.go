// Package observability wires OpenTelemetry metrics and tracing into the
// diarkit engine.
//
// Engine operations are wrapped in an Operation that owns a span and
// reports count, duration and failures to Metrics:
//
//	ctx, op := observability.BeginOperation(ctx, observability.SpanEvaluate, "evaluate", runID, metrics)
//	defer func() { op.End(ctx, err) }()
//
// Export is off until InitMeter and InitTracer install OTLP HTTP providers:
//
//	mp, err := observability.InitMeter(ctx, &cfg)
//	defer mp.Shutdown(ctx)
package observability
