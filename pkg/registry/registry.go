// Package registry maps logger plugin names to constructors. The binary
// fills one Registry at startup; nothing registers itself from init().
package registry

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/config"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/entry"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logerr"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logger"
	"go.uber.org/zap"
)

// Plugin is the surface a logger plugin offers the host.
type Plugin interface {
	SetUp(ctx context.Context) error
	Init(sessionName string, buffered []entry.LogEntry)
	LogString(ctx context.Context, s string) error
	LogSnapshot(ctx context.Context, s string) error
	LogStatus(ctx context.Context, entries []entry.LogEntry) error
}

// Deps is what the host hands every plugin constructor.
type Deps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Logging *logger.LoggingContext
	Stderr  io.Writer
}

// Constructor builds a plugin from deps.
type Constructor func(deps Deps) (Plugin, error)

// Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

func New() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register adds ctor under name. Empty and duplicate names are rejected.
func (r *Registry) Register(name string, ctor Constructor) error {
	if name == "" {
		return logerr.NewConfigError("plugin name is empty", name, nil)
	}
	if ctor == nil {
		return logerr.NewConfigError("plugin constructor is nil", name, nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ctors[name]; exists {
		return logerr.NewConfigError("plugin already registered", name, nil)
	}
	r.ctors[name] = ctor
	return nil
}

// MustRegister is Register for startup code; it panics on error.
func (r *Registry) MustRegister(name string, ctor Constructor) {
	if err := r.Register(name, ctor); err != nil {
		panic(err)
	}
}

// New builds the plugin registered as name.
func (r *Registry) New(name string, deps Deps) (Plugin, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[name]
	r.mu.RUnlock()

	if !ok {
		return nil, logerr.NewConfigError("unknown logger plugin", name, nil)
	}
	return ctor(deps)
}

// Names lists registered plugins in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
