/* pkg/logger/lifecycle.go */

package logger

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateTraceID returns a short 8-char trace ID.
func GenerateTraceID() string {
	return uuid.New().String()[:8]
}

// WithCommandLogging logs start, outcome and duration of fn under traceID.
func WithCommandLogging(log *zap.Logger, name, traceID string, fn func() error) error {
	start := time.Now()

	log.Info("Command started", zap.String("command", name), zap.Time("start_time", start), zap.String("trace_id", traceID))

	err := fn()
	duration := time.Since(start)

	if err != nil {
		log.Error("Command failed", zap.String("command", name), zap.Duration("duration", duration), zap.Error(err), zap.String("trace_id", traceID))
	} else {
		log.Info("Command completed", zap.String("command", name), zap.Duration("duration", duration), zap.String("trace_id", traceID))
	}

	return err
}
