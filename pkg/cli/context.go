// pkg/cli/context.go

package cli

import (
	"context"
	"time"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/telemetry"
	cerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RuntimeContext carries the per-command context, span and logger.
type RuntimeContext struct {
	Ctx       context.Context
	Log       *zap.Logger
	Span      trace.Span
	Timestamp time.Time
	Command   string
	TraceID   string
}

// NewContext starts the command span and tags log with the command and a
// trace ID.
func NewContext(parent context.Context, command string, log *zap.Logger) *RuntimeContext {
	if parent == nil {
		parent = context.Background()
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, span := telemetry.Start(parent, command)

	traceID := logger.GenerateTraceID()
	if sc := span.SpanContext(); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}

	return &RuntimeContext{
		Ctx:       ctx,
		Span:      span,
		Log:       log.With(zap.String("command", command), zap.String("trace_id", traceID)),
		Timestamp: time.Now(),
		Command:   command,
		TraceID:   traceID,
	}
}

// HandlePanic recovers panics, logs them, and converts to an error.
func (rc *RuntimeContext) HandlePanic(errPtr *error) {
	if r := recover(); r != nil {
		*errPtr = cerr.AssertionFailedf("panic: %v", r)
		rc.Log.Error("Panic recovered", zap.Any("panic", r))
	}
}

// End records the outcome on the span and ends it.
func (rc *RuntimeContext) End(errPtr *error) {
	defer rc.Span.End()

	success := errPtr == nil || *errPtr == nil
	rc.Span.SetAttributes(
		attribute.Bool("success", success),
		attribute.Int64("duration_ms", time.Since(rc.Timestamp).Milliseconds()),
	)
	if !success {
		rc.Span.RecordError(*errPtr)
		rc.Span.SetStatus(codes.Error, "command failed")
	}
}
