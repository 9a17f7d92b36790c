package sink

import (
	"context"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/entry"
)

// Forwarder is the part of the remote forwarder a RemoteSink needs.
type Forwarder interface {
	Forward(ctx context.Context, payload string)
}

// RemoteSink mirrors differential results to a collector. Snapshots and
// status entries are not forwarded.
type RemoteSink struct {
	fwd Forwarder
}

func NewRemoteSink(fwd Forwarder) *RemoteSink {
	return &RemoteSink{fwd: fwd}
}

// WriteDifferential forwards payload. Delivery failures are reported by the
// forwarder and never returned.
func (s *RemoteSink) WriteDifferential(ctx context.Context, payload string) error {
	s.fwd.Forward(ctx, payload)
	return nil
}

func (s *RemoteSink) WriteSnapshot(context.Context, string) error { return nil }

func (s *RemoteSink) WriteStatus(context.Context, []entry.LogEntry) error { return nil }
