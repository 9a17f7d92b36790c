// pkg/logger/writer.go

package logger

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// severityFile is the WriteSyncer behind one severity's destination.
// The file is created on first write as prefix + "YYYYMMDD-HHMMSS.<pid>",
// so a WARNING file only appears once something is logged at WARNING or
// above. An open failure is sticky for the lifetime of the session.
type severityFile struct {
	mu      sync.Mutex
	prefix  string
	mode    os.FileMode
	file    *os.File
	path    string
	openErr error

	now         func() time.Time
	pid         int
	onOpenError func(path string, err error)
}

var _ zapcore.WriteSyncer = (*severityFile)(nil)

func newSeverityFile(prefix string, mode os.FileMode, now func() time.Time, pid int, onOpenError func(string, error)) *severityFile {
	return &severityFile{
		prefix:      prefix,
		mode:        mode,
		now:         now,
		pid:         pid,
		onOpenError: onOpenError,
	}
}

func (s *severityFile) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		if s.openErr != nil {
			return 0, s.openErr
		}
		if err := s.open(); err != nil {
			return 0, err
		}
	}
	return s.file.Write(p)
}

func (s *severityFile) open() error {
	path := s.prefix + s.now().Format("20060102-150405") + "." + strconv.Itoa(s.pid)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, s.mode)
	if err != nil {
		s.openErr = err
		if s.onOpenError != nil {
			s.onOpenError(path, err)
		}
		return err
	}
	// The umask may have stripped bits from the create mode.
	_ = file.Chmod(s.mode)
	s.file = file
	s.path = path
	s.linkLatest()
	return nil
}

// linkLatest points "<dir>/<session>.<SEVERITY>" at the newest file.
// Best effort: a missing symlink never fails a write.
func (s *severityFile) linkLatest() {
	link := strings.TrimSuffix(s.prefix, ".")
	if link == s.prefix || link == "" {
		return
	}
	_ = os.Remove(link)
	_ = os.Symlink(filepath.Base(s.path), link)
}

func (s *severityFile) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	return s.file.Sync()
}

// Path is the file created for this destination, empty until first write.
func (s *severityFile) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

func (s *severityFile) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
