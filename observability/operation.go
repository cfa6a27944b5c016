package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Run status values recorded on spans and the run duration histogram.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Operation tracks one traced and timed unit of fixture work.
type Operation struct {
	Name      string
	RunID     string
	StartTime time.Time
	Metrics   *FixtureMetrics

	span trace.Span
}

// StartOperation opens a span named name tagged with runID. If metrics is
// nil, metric recording is skipped.
func StartOperation(ctx context.Context, name, runID string, metrics *FixtureMetrics, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, name, trace.WithAttributes(
		append([]attribute.KeyValue{attribute.String(AttrRunID, runID)}, attrs...)...,
	))
	return ctx, &Operation{
		Name:      name,
		RunID:     runID,
		StartTime: time.Now(),
		Metrics:   metrics,
		span:      span,
	}
}

// Span returns the operation's span.
func (op *Operation) Span() trace.Span { return op.span }

// End closes the span, marking it failed when err is non-nil, and records
// the run duration.
func (op *Operation) End(ctx context.Context, err error) {
	duration := op.Duration()
	status := StatusOK
	if err != nil {
		status = StatusError
		SetSpanError(op.span, err)
	}

	op.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	op.span.End()

	op.Metrics.RecordRun(ctx, op.Name, status, duration)
}

// Duration returns the elapsed time since operation start.
func (op *Operation) Duration() time.Duration {
	return time.Since(op.StartTime)
}
