package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/diarkit/logger"
)

const meterName = "github.com/kbukum/diarkit"

// InitMeter installs a global meter provider exporting over OTLP HTTP.
// The caller shuts the provider down on exit.
func InitMeter(ctx context.Context, cfg *Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns the diarkit meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(meterName)
}

// Metrics holds the instruments recorded by engine operations. A nil
// *Metrics records nothing.
type Metrics struct {
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	segmentsDropped   metric.Int64Counter
	labelTotal        metric.Int64Counter
	mergeAbsorbed     metric.Int64Counter
	errorTotal        metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	operationTotal, err := meter.Int64Counter("diarkit.operation.total",
		metric.WithDescription("Engine operations by name and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating diarkit.operation.total counter: %w", err)
	}

	operationDuration, err := meter.Float64Histogram("diarkit.operation.duration",
		metric.WithDescription("Duration of engine operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating diarkit.operation.duration histogram: %w", err)
	}

	segmentsDropped, err := meter.Int64Counter("diarkit.segments.dropped",
		metric.WithDescription("Input segments dropped during timeline construction"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating diarkit.segments.dropped counter: %w", err)
	}

	labelTotal, err := meter.Int64Counter("diarkit.classification.total",
		metric.WithDescription("Classified candidates by label"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating diarkit.classification.total counter: %w", err)
	}

	mergeAbsorbed, err := meter.Int64Counter("diarkit.merge.absorbed",
		metric.WithDescription("Duplicate segments absorbed by the overlap merger"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating diarkit.merge.absorbed counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("diarkit.error.total",
		metric.WithDescription("Failed engine operations by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating diarkit.error.total counter: %w", err)
	}

	return &Metrics{
		operationTotal:    operationTotal,
		operationDuration: operationDuration,
		segmentsDropped:   segmentsDropped,
		labelTotal:        labelTotal,
		mergeAbsorbed:     mergeAbsorbed,
		errorTotal:        errorTotal,
	}, nil
}

// NoopMetrics returns Metrics backed by the no-op meter.
func NoopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter(meterName))
	return m
}

// RecordOperation records one engine operation.
func (m *Metrics) RecordOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrOperation, operation),
		attribute.String(AttrStatus, status),
	))
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrOperation, operation),
	))
}

// RecordDropped records segments dropped from one input source.
func (m *Metrics) RecordDropped(ctx context.Context, operation, source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.segmentsDropped.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String(AttrOperation, operation),
		attribute.String(AttrSource, source),
	))
}

// RecordLabels records classification counts keyed by label.
func (m *Metrics) RecordLabels(ctx context.Context, counts map[string]int) {
	if m == nil {
		return
	}
	for label, n := range counts {
		if n <= 0 {
			continue
		}
		m.labelTotal.Add(ctx, int64(n), metric.WithAttributes(attribute.String(AttrLabel, label)))
	}
}

// RecordAbsorbed records segments collapsed into a surviving duplicate.
func (m *Metrics) RecordAbsorbed(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.mergeAbsorbed.Add(ctx, int64(n))
}

// RecordError records a failed operation by error code.
func (m *Metrics) RecordError(ctx context.Context, operation, code string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrOperation, operation),
		attribute.String(AttrErrorCode, code),
	))
}
