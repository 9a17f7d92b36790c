// pkg/logger/context.go

package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/entry"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logerr"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/shared"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConsoleEcho controls what reaches stderr.
//
//   - LogToStderr: stderr only, no files.
//   - AlsoLogToStderr: every entry is copied to stderr as well as the files.
//   - StderrThreshold: entries at or above it are copied to stderr.
type ConsoleEcho struct {
	LogToStderr     bool
	AlsoLogToStderr bool
	StderrThreshold entry.Severity
}

// DefaultConsoleEcho writes to files and echoes ERROR and above.
func DefaultConsoleEcho() ConsoleEcho {
	return ConsoleEcho{StderrThreshold: entry.SeverityError}
}

// SuppressedConsoleEcho echoes nothing at all.
func SuppressedConsoleEcho() ConsoleEcho {
	return ConsoleEcho{StderrThreshold: entry.SeverityNone}
}

// Options configure a LoggingContext session.
type Options struct {
	// LogDir receives the default severity files. Empty means os.TempDir().
	LogDir string
	// FileMode is applied to every severity file created.
	FileMode os.FileMode
	// Stderr is the echo channel. Nil means os.Stderr.
	Stderr io.Writer
}

// LoggingContext is the process's severity-routing diagnostic logger.
//
// It owns the session lifecycle (Stop, Configure, Start), the per-severity
// destinations and the stderr echo settings. One value is created at process
// start and passed to whatever needs it; nothing reaches it through globals.
//
// Log is safe for concurrent use. Lifecycle calls take the write lock and
// therefore wait for in-flight Log calls.
type LoggingContext struct {
	mu      sync.RWMutex
	opts    Options
	session string
	active  bool
	files   map[entry.Severity]*severityFile
	fileEnc zapcore.Encoder
	stderr  zapcore.Core

	echo    atomic.Pointer[ConsoleEcho]
	dropped atomic.Int64

	now  func() time.Time
	pid  int
	diag *zap.Logger
}

// NewLoggingContext returns an inactive context. Entries logged before Start
// go to stderr.
func NewLoggingContext(opts Options) *LoggingContext {
	c := &LoggingContext{
		files: make(map[entry.Severity]*severityFile),
		now:   time.Now,
		pid:   os.Getpid(),
	}
	echo := DefaultConsoleEcho()
	c.echo.Store(&echo)
	c.applyOptions(opts)
	return c
}

func (c *LoggingContext) applyOptions(opts Options) {
	if opts.FileMode == 0 {
		opts.FileMode = shared.RuntimeFilePerms
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	c.opts = opts
	c.fileEnc = zapcore.NewConsoleEncoder(StatusEncoderConfig())
	c.stderr = zapcore.NewCore(
		zapcore.NewConsoleEncoder(StatusEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(opts.Stderr)),
		zapcore.DebugLevel,
	)
	c.diag = NewDiagnosticLogger(opts.Stderr)
}

// Options returns the current configuration.
func (c *LoggingContext) Options() Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.opts
}

// Configure replaces the options. It takes effect for destinations bound
// after the call; use it between Stop and Start.
func (c *LoggingContext) Configure(opts Options) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyOptions(opts)
}

// Start opens a new session tagged with name and binds the default
// destinations "<LogDir>/<name>.<SEVERITY>.". A running session is stopped
// first.
func (c *LoggingContext) Start(name string) error {
	if name == "" {
		return logerr.NewInitError("session name is empty", name, nil)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		_ = c.closeFilesLocked()
	}

	dir := c.opts.LogDir
	if dir == "" {
		dir = os.TempDir()
	}
	c.session = name
	c.active = true
	for _, sev := range entry.FileSeverities {
		c.bindLocked(sev, filepath.Join(dir, name+"."+sev.String()+"."))
	}
	return nil
}

// Stop flushes and closes every destination. Safe on an inactive context.
func (c *LoggingContext) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return nil
	}
	err := c.closeFilesLocked()
	c.active = false
	c.session = ""
	return err
}

// SetLogDestination routes sev's file to prefix + "<timestamp>.<pid>".
func (c *LoggingContext) SetLogDestination(sev entry.Severity, prefix string) error {
	if sev < entry.SeverityInfo || sev > entry.SeverityError {
		return logerr.NewInitError("no file destination for severity "+sev.String(), prefix, nil)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return logerr.NewInitError("log destination set before session start", prefix, nil)
	}
	if old, ok := c.files[sev]; ok {
		_ = old.Close()
	}
	c.bindLocked(sev, prefix)
	return nil
}

func (c *LoggingContext) bindLocked(sev entry.Severity, prefix string) {
	c.files[sev] = newSeverityFile(prefix, c.opts.FileMode, c.now, c.pid, c.reportOpenError)
}

func (c *LoggingContext) reportOpenError(path string, err error) {
	c.diag.Error("Could not create log file",
		zap.String("path", path),
		zap.Error(err))
}

func (c *LoggingContext) closeFilesLocked() error {
	var result *multierror.Error
	for sev, f := range c.files {
		result = multierror.Append(result, f.Sync(), f.Close())
		delete(c.files, sev)
	}
	return result.ErrorOrNil()
}

// ConsoleEcho returns the current echo settings.
func (c *LoggingContext) ConsoleEcho() ConsoleEcho {
	return *c.echo.Load()
}

// SetConsoleEcho replaces the echo settings atomically.
func (c *LoggingContext) SetConsoleEcho(echo ConsoleEcho) {
	c.echo.Store(&echo)
}

// Session is the active session name, empty when stopped.
func (c *LoggingContext) Session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Active reports whether a session is running.
func (c *LoggingContext) Active() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Dropped counts entries that reached no destination at all.
func (c *LoggingContext) Dropped() int64 {
	return c.dropped.Load()
}

// DestinationPath is the file created for sev, empty until its first write.
func (c *LoggingContext) DestinationPath(sev entry.Severity) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if f, ok := c.files[sev]; ok {
		return f.Path()
	}
	return ""
}

// Log writes e at its severity, keeping e's file and line as the caller.
//
// With LogToStderr (or before Start) the entry goes to stderr only.
// Otherwise it goes to the file of its severity and of every lower
// severity, and to stderr when AlsoLogToStderr is set or its severity is at
// or above StderrThreshold.
func (c *LoggingContext) Log(e entry.LogEntry) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sev := e.Severity.Clamp()
	ent := zapcore.Entry{
		Level:      SeverityLevel(sev),
		Time:       c.now(),
		LoggerName: c.session,
		Message:    e.Payload,
		Caller:     zapcore.NewEntryCaller(0, e.SourceFile, e.SourceLine, e.SourceFile != ""),
	}

	echo := c.ConsoleEcho()
	delivered := false

	if echo.LogToStderr || !c.active {
		delivered = c.stderr.Write(ent, nil) == nil
	} else {
		for s := sev; s >= entry.SeverityInfo; s-- {
			f, ok := c.files[s]
			if !ok {
				continue
			}
			if c.writeFile(f, ent) == nil {
				delivered = true
			}
		}
		if echo.AlsoLogToStderr || sev >= echo.StderrThreshold {
			if c.stderr.Write(ent, nil) == nil {
				delivered = true
			}
		}
	}

	if !delivered {
		c.dropped.Add(1)
	}
}

func (c *LoggingContext) writeFile(f *severityFile, ent zapcore.Entry) error {
	buf, err := c.fileEnc.EncodeEntry(ent, nil)
	if err != nil {
		return err
	}
	defer buf.Free()
	_, err = f.Write(buf.Bytes())
	return err
}

// Sync flushes every open destination.
func (c *LoggingContext) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var result *multierror.Error
	for _, f := range c.files {
		result = multierror.Append(result, f.Sync())
	}
	return result.ErrorOrNil()
}
