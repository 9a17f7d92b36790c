package fileops

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logerr"
)

// ExpandPath expands a leading ~/ and environment variables in path.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}

// ResolveDir turns a configured directory into a clean absolute path.
// An empty result is a config error.
func ResolveDir(dir string) (string, error) {
	expanded := ExpandPath(strings.TrimSpace(dir))
	if expanded == "" {
		return "", logerr.NewConfigError("log directory is not configured", dir, nil)
	}
	if strings.ContainsRune(expanded, 0) {
		return "", logerr.NewConfigError("log directory contains a NUL byte", dir, nil)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", logerr.NewConfigError("log directory cannot be resolved", dir, err)
	}
	return abs, nil
}
