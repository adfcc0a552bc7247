package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RunCommand runs fn inside a span named after op and records its outcome
// in red. The error returned by fn is passed through.
func RunCommand(
	ctx context.Context, tracer trace.Tracer, red *REDMetrics, op string, fn func(ctx context.Context) error,
) error {
	ctx, span := tracer.Start(ctx, "treemap."+op)
	defer span.End()

	done := red.TrackInflight(ctx, op)
	defer done()

	start := time.Now()
	err := fn(ctx)

	status := StatusOK
	if err != nil {
		status = StatusError

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	red.RecordCommand(ctx, op, status, time.Since(start))

	return err
}
