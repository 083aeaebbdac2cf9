package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/diarkit/errors"
)

// Operation status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Operation tracks one engine call: its span, its start time and the
// metrics it reports to when it ends.
type Operation struct {
	Name      string
	RunID     string
	StartTime time.Time

	span    trace.Span
	metrics *Metrics
}

// BeginOperation starts a span named spanName tagged with the operation
// and run ID. metrics may be nil.
func BeginOperation(ctx context.Context, spanName, name, runID string, metrics *Metrics) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, spanName, trace.WithAttributes(
		attribute.String(AttrOperation, name),
		attribute.String(AttrRunID, runID),
	))
	return ctx, &Operation{
		Name:      name,
		RunID:     runID,
		StartTime: time.Now(),
		span:      span,
		metrics:   metrics,
	}
}

// Span returns the operation's span.
func (o *Operation) Span() trace.Span {
	return o.span
}

// End closes the span and records the outcome. It returns the elapsed time.
func (o *Operation) End(ctx context.Context, err error) time.Duration {
	duration := time.Since(o.StartTime)

	status := StatusOK
	if err != nil {
		status = StatusError
		code := string(apperrors.ErrCodeInternal)
		if appErr, ok := apperrors.AsAppError(err); ok {
			code = string(appErr.Code)
		}
		o.span.SetAttributes(attribute.String(AttrErrorCode, code))
		SetSpanError(trace.ContextWithSpan(ctx, o.span), err)
		o.metrics.RecordError(ctx, o.Name, code)
	}

	o.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	o.span.End()

	o.metrics.RecordOperation(ctx, o.Name, status, duration)
	return duration
}
