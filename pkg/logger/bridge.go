// pkg/logger/bridge.go

package logger

import (
	"fmt"
	"path/filepath"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/entry"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logerr"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/metrics"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/shared"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// BridgeState is the bridge lifecycle: Uninitialized until the first Init,
// Active afterwards. Init re-enters Active.
type BridgeState int

const (
	BridgeUninitialized BridgeState = iota
	BridgeActive
)

func (s BridgeState) String() string {
	if s == BridgeActive {
		return "active"
	}
	return "uninitialized"
}

// WritableProbe decides whether status files can be written under a dir.
type WritableProbe func(dir string) error

// SystemLogBridge points a LoggingContext at the base directory and feeds it
// status entries.
//
// Concurrency: Init must run once, before any concurrent LogStatus traffic,
// and never concurrently with itself or LogStatus. The bridge takes no locks
// of its own; concurrent LogStatus calls rely on LoggingContext.Log being
// safe for concurrent use.
type SystemLogBridge struct {
	lc             *LoggingContext
	baseDir        string
	probe          WritableProbe
	diag           *zap.Logger
	defaultSession string

	state       BridgeState
	session     string
	fallback    bool
	lastInitErr error
}

// NewSystemLogBridge binds lc to baseDir. probe defaults to IsWritable.
func NewSystemLogBridge(lc *LoggingContext, baseDir string, probe WritableProbe) *SystemLogBridge {
	if probe == nil {
		probe = IsWritable
	}
	return &SystemLogBridge{
		lc:             lc,
		baseDir:        baseDir,
		probe:          probe,
		diag:           NewDiagnosticLogger(lc.Options().Stderr),
		defaultSession: shared.DefaultBinaryName,
	}
}

// SetDefaultSession names the session Init starts when given an empty name.
// Empty names are ignored.
func (b *SystemLogBridge) SetDefaultSession(name string) {
	if name != "" {
		b.defaultSession = name
	}
}

// Init restarts the logging session as sessionName and replays entries that
// were buffered before the bridge was ready.
//
// Init has no error return. A failure is reported on stderr and kept for
// LastInitError; the session keeps running on whatever could be configured.
// An empty sessionName is such a failure: the default session is started
// instead, so a session is always active afterwards.
func (b *SystemLogBridge) Init(sessionName string, buffered []entry.LogEntry) {
	var result *multierror.Error

	if sessionName == "" {
		result = multierror.Append(result, logerr.NewInitError("session name is empty, started default session", b.defaultSession, nil))
		sessionName = b.defaultSession
	}

	if err := b.lc.Stop(); err != nil {
		result = multierror.Append(result, logerr.NewInitError("failed to stop previous session", sessionName, err))
	}

	opts := b.lc.Options()
	echo := b.lc.ConsoleEcho()
	if err := b.probe(b.baseDir); err == nil {
		opts.LogDir = b.baseDir
		echo.LogToStderr = false
		b.fallback = false
	} else {
		// Not writable: echo to stderr so status lines are not lost.
		echo.LogToStderr = true
		b.fallback = true
	}
	b.lc.Configure(opts)
	b.lc.SetConsoleEcho(echo)

	if err := b.lc.Start(sessionName); err != nil {
		result = multierror.Append(result, err)
	}

	base := filepath.Join(b.baseDir, sessionName)
	for _, sev := range entry.FileSeverities {
		if err := b.lc.SetLogDestination(sev, base+"."+sev.String()+"."); err != nil {
			result = multierror.Append(result, err)
		}
	}

	saved := b.lc.ConsoleEcho()
	b.lc.SetConsoleEcho(SuppressedConsoleEcho())
	droppedBefore := b.lc.Dropped()

	_ = b.LogStatus(buffered)

	b.lc.SetConsoleEcho(saved)

	if lost := b.lc.Dropped() - droppedBefore; lost > 0 {
		b.lc.Log(entry.LogEntry{
			Category: entry.Status,
			Severity: entry.SeverityWarning,
			Payload:  fmt.Sprintf("%d buffered status entries could not be written to %s", lost, b.baseDir),
		})
	}

	b.session = sessionName
	b.state = BridgeActive
	b.lastInitErr = result.ErrorOrNil()
	if b.lastInitErr != nil {
		b.diag.Error("System log bridge init incomplete",
			zap.String("session", sessionName),
			zap.String("log_dir", b.baseDir),
			zap.Error(b.lastInitErr))
	}
}

// LogStatus hands every entry to the logging context with its original
// severity and provenance. It never fails.
func (b *SystemLogBridge) LogStatus(entries []entry.LogEntry) error {
	for _, e := range entries {
		metrics.ObserveStatus(e.Severity.Clamp().String())
		b.lc.Log(e)
	}
	return nil
}

// FallbackActive reports whether the last Init fell back to stderr.
func (b *SystemLogBridge) FallbackActive() bool { return b.fallback }

// SessionName is the name passed to the last Init.
func (b *SystemLogBridge) SessionName() string { return b.session }

// State is the lifecycle state.
func (b *SystemLogBridge) State() BridgeState { return b.state }

// LastInitError is what went wrong during the last Init, if anything.
func (b *SystemLogBridge) LastInitError() error { return b.lastInitErr }

// Context exposes the logging context the bridge drives.
func (b *SystemLogBridge) Context() *LoggingContext { return b.lc }
