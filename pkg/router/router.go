// Package router is the "filesystem2" logger plugin: it routes differential
// results, snapshots and status lines to files under one base directory and
// mirrors differential results to an optional remote collector.
package router

import (
	"context"
	"io"
	"path/filepath"
	"sync"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/config"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/entry"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/fileops"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/forwarder"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logerr"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/metrics"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/registry"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/sink"
	"go.uber.org/zap"
)

// LoggerState is what the router exposes about itself.
type LoggerState struct {
	BaseDirectory        string
	StderrFallbackActive bool
	SystemLogSessionName string
}

// Options wire a Router. Only Config is required.
type Options struct {
	Config *config.Config
	// Logger receives component diagnostics. Nil means no-op.
	Logger *zap.Logger
	// Logging is the system log facility status lines go to. Nil creates
	// one writing to Stderr.
	Logging *logger.LoggingContext
	// Stderr receives forward failures and init diagnostics. Nil means
	// os.Stderr.
	Stderr io.Writer
	// Probe decides whether the base directory can hold status files.
	Probe logger.WritableProbe
}

// Router implements the plugin surface. SetUp must complete before any other
// call; after that every method is safe for concurrent use.
type Router struct {
	cfg    *config.Config
	log    *zap.Logger
	lc     *logger.LoggingContext
	stderr io.Writer
	probe  logger.WritableProbe
	diag   *zap.Logger

	mu      sync.RWMutex
	baseDir string
	writer  *fileops.FileWriter
	fs      *sink.FilesystemSink
	sinks   *sink.CompositeSink
	bridge  *logger.SystemLogBridge
}

// New returns a router that has not been set up.
func New(opts Options) *Router {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	lc := opts.Logging
	if lc == nil {
		lc = logger.NewLoggingContext(logger.Options{Stderr: opts.Stderr, FileMode: cfg.FileMode()})
	}
	return &Router{
		cfg:    cfg,
		log:    log.Named(shared.PluginName),
		lc:     lc,
		stderr: opts.Stderr,
		probe:  opts.Probe,
		diag:   logger.NewDiagnosticLogger(opts.Stderr),
	}
}

// SetUp resolves the base directory and truncates the results file.
//
// The base directory is fixed by the first successful call; later calls
// truncate the same results file again and ignore configuration changes.
func (r *Router) SetUp(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fs == nil {
		if err := r.bindLocked(); err != nil {
			return err
		}
	}

	results := r.fs.Results()
	r.log.Debug("Truncating results log",
		zap.String("path", results.Path),
		zap.String("mode", results.Mode.String()))

	if err := r.writer.Truncate(ctx, results.Path, results.Mode, true); err != nil {
		r.log.Error("Failed to prepare results log",
			zap.String("path", results.Path),
			zap.Error(err))
		return logerr.WrapIOError(err)
	}
	return nil
}

func (r *Router) bindLocked() error {
	baseDir, err := fileops.ResolveDir(r.cfg.LogDir)
	if err != nil {
		return logerr.WrapConfigError(err)
	}

	mode := r.cfg.FileMode()
	r.baseDir = baseDir
	r.writer = fileops.NewFileWriter(r.log)
	r.bridge = logger.NewSystemLogBridge(r.lc, baseDir, r.probe)
	r.bridge.SetDefaultSession(r.cfg.BinaryName)
	r.fs = sink.NewFilesystemSink(r.writer, r.bridge,
		filepath.Join(baseDir, shared.ResultsFilename(r.cfg.BinaryName)),
		filepath.Join(baseDir, shared.SnapshotsFilename(r.cfg.BinaryName)),
		mode)

	var remote sink.LogSink
	if r.cfg.RemoteEndpoint != "" {
		remote = sink.NewRemoteSink(forwarder.New(r.cfg.RemoteEndpoint, r.cfg.HTTPClientConfig(), r.diag))
	}
	// Forward first: the file append's result is what callers see.
	r.sinks = sink.NewCompositeSink(remote, r.fs)

	r.log.Info("Log router configured",
		zap.String("base_dir", baseDir),
		zap.String("mode", mode.String()),
		zap.Bool("remote", remote != nil))
	return nil
}

// Init points the system log facility at the base directory under
// sessionName and replays buffered status entries. Failures are reported on
// stderr, never returned.
func (r *Router) Init(sessionName string, buffered []entry.LogEntry) {
	r.mu.RLock()
	bridge := r.bridge
	r.mu.RUnlock()

	if bridge == nil {
		r.diag.Error("Logger init called before setup",
			zap.String("session", sessionName),
			zap.Int("buffered", len(buffered)))
		return
	}
	bridge.Init(sessionName, buffered)
	r.log.Debug("System log initialized",
		zap.String("session", sessionName),
		zap.Bool("stderr_fallback", bridge.FallbackActive()),
		zap.Int("replayed", len(buffered)))
}

// LogString forwards s to the remote collector when one is configured, then
// appends "[s]\n" to the results file. Only the append can fail.
func (r *Router) LogString(ctx context.Context, s string) error {
	sinks, err := r.ready()
	if err == nil {
		err = sinks.WriteDifferential(ctx, s)
	}
	metrics.ObserveWrite(entry.Differential.String(), err)
	return err
}

// LogSnapshot appends "s\n" to the snapshots file.
func (r *Router) LogSnapshot(ctx context.Context, s string) error {
	sinks, err := r.ready()
	if err == nil {
		err = sinks.WriteSnapshot(ctx, s)
	}
	metrics.ObserveWrite(entry.Snapshot.String(), err)
	return err
}

// LogStatus hands entries to the system log facility. It always succeeds.
func (r *Router) LogStatus(ctx context.Context, entries []entry.LogEntry) error {
	r.mu.RLock()
	fs := r.fs
	r.mu.RUnlock()

	if fs == nil {
		// Not set up yet: nothing is bound, the context echoes to stderr.
		for _, e := range entries {
			r.lc.Log(e)
		}
	} else {
		_ = fs.WriteStatus(ctx, entries)
	}
	metrics.ObserveWrite(entry.Status.String(), nil)
	return nil
}

func (r *Router) ready() (*sink.CompositeSink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.sinks == nil {
		return nil, logerr.NewInitError("logger used before setup", shared.PluginName, nil)
	}
	return r.sinks, nil
}

// State reports the base directory and the system log status.
func (r *Router) State() LoggerState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st := LoggerState{BaseDirectory: r.baseDir}
	if r.bridge != nil {
		st.StderrFallbackActive = r.bridge.FallbackActive()
		st.SystemLogSessionName = r.bridge.SessionName()
	}
	return st
}

// Logging is the system log facility the router drives.
func (r *Router) Logging() *logger.LoggingContext { return r.lc }

// ResultsPath is the differential results file, empty before SetUp.
func (r *Router) ResultsPath() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.fs == nil {
		return ""
	}
	return r.fs.Results().Path
}

// SnapshotsPath is the snapshot file, empty before SetUp.
func (r *Router) SnapshotsPath() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.fs == nil {
		return ""
	}
	return r.fs.Snapshots().Path
}

// Register adds the router to reg under its plugin name.
func Register(reg *registry.Registry) error {
	return reg.Register(shared.PluginName, NewPlugin)
}

// NewPlugin is the registry constructor for the filesystem logger.
func NewPlugin(deps registry.Deps) (registry.Plugin, error) {
	return New(Options{
		Config:  deps.Config,
		Logger:  deps.Logger,
		Logging: deps.Logging,
		Stderr:  deps.Stderr,
	}), nil
}

var _ registry.Plugin = (*Router)(nil)
