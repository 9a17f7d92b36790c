package sink

import (
	"context"
	"os"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/entry"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/fileops"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logger"
)

// FilesystemSink appends results and snapshots to their files and hands
// status entries to the system log bridge.
type FilesystemSink struct {
	writer    *fileops.FileWriter
	bridge    *logger.SystemLogBridge
	results   entry.LogDestination
	snapshots entry.LogDestination
}

// NewFilesystemSink writes results and snapshots through writer with mode.
func NewFilesystemSink(writer *fileops.FileWriter, bridge *logger.SystemLogBridge, resultsPath, snapshotsPath string, mode os.FileMode) *FilesystemSink {
	return &FilesystemSink{
		writer:    writer,
		bridge:    bridge,
		results:   entry.LogDestination{Path: resultsPath, Mode: mode},
		snapshots: entry.LogDestination{Path: snapshotsPath, Mode: mode},
	}
}

// Results is the differential results destination.
func (s *FilesystemSink) Results() entry.LogDestination { return s.results }

// Snapshots is the snapshot destination.
func (s *FilesystemSink) Snapshots() entry.LogDestination { return s.snapshots }

// WriteDifferential appends "[payload]\n" to the results file. A missing log
// directory is recreated.
func (s *FilesystemSink) WriteDifferential(ctx context.Context, payload string) error {
	return s.writer.Append(ctx, s.results.Path, "["+payload+"]\n", s.results.Mode, true)
}

// WriteSnapshot appends "payload\n" to the snapshots file. A missing log
// directory is recreated.
func (s *FilesystemSink) WriteSnapshot(ctx context.Context, payload string) error {
	return s.writer.Append(ctx, s.snapshots.Path, payload+"\n", s.snapshots.Mode, true)
}

// WriteStatus passes entries to the bridge.
func (s *FilesystemSink) WriteStatus(_ context.Context, entries []entry.LogEntry) error {
	return s.bridge.LogStatus(entries)
}
