package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricCommandsTotal    = "treemap.commands.total"
	metricCommandDuration  = "treemap.command.duration.seconds"
	metricErrorsTotal      = "treemap.errors.total"
	metricInflightCommands = "treemap.inflight.commands"
	metricSnapshotPairs    = "treemap.snapshot.pairs"
	metricSnapshotBytes    = "treemap.snapshot.bytes"

	attrOp        = "op"
	attrStatus    = "status"
	attrDirection = "direction"

	// StatusOK marks a command that succeeded.
	StatusOK = "ok"
	// StatusError marks a command that failed.
	StatusError = "error"

	// DirectionRead marks snapshots being loaded.
	DirectionRead = "read"
	// DirectionWrite marks snapshots being saved.
	DirectionWrite = "write"
)

// durationBucketBoundaries covers 1ms to 120s: commands range from point
// queries to rebuilding multi-million pair snapshots.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}

// REDMetrics holds the OTel instruments for Rate, Error, Duration metrics of
// CLI commands, plus the sizes of the snapshots they move.
type REDMetrics struct {
	commandsTotal    metric.Int64Counter
	commandDuration  metric.Float64Histogram
	errorsTotal      metric.Int64Counter
	inflightCommands metric.Int64UpDownCounter
	snapshotPairs    metric.Int64Histogram
	snapshotBytes    metric.Int64Histogram
}

// NewREDMetrics creates RED metric instruments from the given meter.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	cmdTotal, err := mt.Int64Counter(metricCommandsTotal,
		metric.WithDescription("Total number of commands"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCommandsTotal, err)
	}

	cmdDuration, err := mt.Float64Histogram(metricCommandDuration,
		metric.WithDescription("Command duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCommandDuration, err)
	}

	errTotal, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Total number of failed commands"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricInflightCommands,
		metric.WithDescription("Number of running commands"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightCommands, err)
	}

	pairs, err := mt.Int64Histogram(metricSnapshotPairs,
		metric.WithDescription("Pairs per snapshot read or written"),
		metric.WithUnit("{pair}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSnapshotPairs, err)
	}

	size, err := mt.Int64Histogram(metricSnapshotBytes,
		metric.WithDescription("Snapshot file size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSnapshotBytes, err)
	}

	return &REDMetrics{
		commandsTotal:    cmdTotal,
		commandDuration:  cmdDuration,
		errorsTotal:      errTotal,
		inflightCommands: inflight,
		snapshotPairs:    pairs,
		snapshotBytes:    size,
	}, nil
}

// RecordCommand records a completed command with its operation, status, and duration.
func (rm *REDMetrics) RecordCommand(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.commandsTotal.Add(ctx, 1, attrs)
	rm.commandDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrOp, op),
		))
	}
}

// TrackInflight increments the in-flight gauge and returns a function to decrement it.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightCommands.Add(ctx, 1, attrs)

	return func() {
		rm.inflightCommands.Add(ctx, -1, attrs)
	}
}

// RecordSnapshot records the pair count and file size of a snapshot.
func (rm *REDMetrics) RecordSnapshot(ctx context.Context, direction string, pairs int, bytes int64) {
	attrs := metric.WithAttributes(attribute.String(attrDirection, direction))

	rm.snapshotPairs.Record(ctx, int64(pairs), attrs)
	rm.snapshotBytes.Record(ctx, bytes, attrs)
}
