// Package sink holds the destinations a router fans log entries out to.
package sink

import (
	"context"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/entry"
)

// LogSink is anything that can receive the three log categories.
type LogSink interface {
	WriteDifferential(ctx context.Context, payload string) error
	WriteSnapshot(ctx context.Context, payload string) error
	WriteStatus(ctx context.Context, entries []entry.LogEntry) error
}
