package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	AttributeAction = "mbo.action"
)

// RunMetrics holds the counters recorded while replaying one stream.
// A nil *RunMetrics is valid and records nothing, so callers don't
// branch on whether the collector is configured.
type RunMetrics struct {
	eventsApplied    metric.Int64Counter
	snapshotsEmitted metric.Int64Counter
	recordsSkipped   metric.Int64Counter
}

// NewRunMetrics creates the replay counters on the global meter
func NewRunMetrics() (*RunMetrics, error) {
	meter := otel.Meter(ServiceName)

	eventsApplied, err := meter.Int64Counter("booksnap.events.applied",
		metric.WithDescription("MBO events applied to the book"))
	if err != nil {
		return nil, err
	}

	snapshotsEmitted, err := meter.Int64Counter("booksnap.snapshots.emitted",
		metric.WithDescription("Depth snapshots emitted"))
	if err != nil {
		return nil, err
	}

	recordsSkipped, err := meter.Int64Counter("booksnap.records.skipped",
		metric.WithDescription("Input records skipped as malformed or ignored"))
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		eventsApplied:    eventsApplied,
		snapshotsEmitted: snapshotsEmitted,
		recordsSkipped:   recordsSkipped,
	}, nil
}

// RecordEvent counts one applied event by action
func (m *RunMetrics) RecordEvent(ctx context.Context, action string) {
	if m == nil {
		return
	}
	m.eventsApplied.Add(ctx, 1, metric.WithAttributes(attribute.String(AttributeAction, action)))
}

// RecordSnapshot counts one emitted snapshot row
func (m *RunMetrics) RecordSnapshot(ctx context.Context) {
	if m == nil {
		return
	}
	m.snapshotsEmitted.Add(ctx, 1)
}

// RecordSkipped counts one skipped or ignored record
func (m *RunMetrics) RecordSkipped(ctx context.Context) {
	if m == nil {
		return
	}
	m.recordsSkipped.Add(ctx, 1)
}
