// Package fileops provides the append-only file writer behind the results and
// snapshot logs.
package fileops

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logerr"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/shared"
	"go.uber.org/zap"
)

// FileWriter appends text to log files.
//
// A single mutex serializes every call regardless of the target path, so a
// snapshot write and a results write never run at the same time. Each call
// opens, writes and closes the file; no handle is kept between calls.
type FileWriter struct {
	mu     sync.Mutex
	logger *zap.Logger
}

// NewFileWriter creates a new file writer
func NewFileWriter(logger *zap.Logger) *FileWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileWriter{
		logger: logger.Named("filesystem"),
	}
}

// Append writes content verbatim to the end of path, creating the file with
// mode when it does not exist.
func (f *FileWriter) Append(ctx context.Context, path, content string, mode os.FileMode, createParentDirs bool) error {
	return f.write(ctx, path, content, mode, createParentDirs, os.O_APPEND)
}

// Truncate leaves path existing and empty.
func (f *FileWriter) Truncate(ctx context.Context, path string, mode os.FileMode, createParentDirs bool) error {
	return f.write(ctx, path, "", mode, createParentDirs, os.O_TRUNC)
}

func (f *FileWriter) write(_ context.Context, path, content string, mode os.FileMode, createParentDirs bool, flag int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.logger.Debug("Writing file",
		zap.String("path", path),
		zap.Int("size", len(content)),
		zap.String("permissions", mode.String()),
		zap.Bool("truncate", flag&os.O_TRUNC != 0))

	if createParentDirs {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, shared.DirPermStandard); err != nil {
			f.logger.Error("Failed to create directory",
				zap.String("dir", dir),
				zap.Error(err))
			return logerr.NewIOError("failed to create directory", dir, err)
		}
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|flag, mode)
	if err != nil {
		f.logger.Error("Failed to open file",
			zap.String("path", path),
			zap.Error(err))
		return logerr.NewIOError("failed to open file", path, err)
	}

	// OpenFile only applies mode on creation and through the umask.
	if info, err := file.Stat(); err == nil && info.Mode().Perm() != mode.Perm() {
		if err := file.Chmod(mode.Perm()); err != nil {
			f.logger.Warn("Failed to set file mode",
				zap.String("path", path),
				zap.String("want", mode.Perm().String()),
				zap.String("have", info.Mode().Perm().String()),
				zap.Error(err))
		}
	}

	if content != "" {
		if _, err := file.WriteString(content); err != nil {
			_ = file.Close()
			f.logger.Error("Failed to write file",
				zap.String("path", path),
				zap.Error(err))
			return logerr.NewIOError("failed to write file", path, err)
		}
	}

	if err := file.Close(); err != nil {
		f.logger.Error("Failed to close file",
			zap.String("path", path),
			zap.Error(err))
		return logerr.NewIOError("failed to close file", path, err)
	}

	return nil
}
