package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writes zap makes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// readSeverityFile returns the content of the single "<dir>/<session>.<sev>.*" file.
func readSeverityFile(t *testing.T, dir, session, sev string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, session+"."+sev+".*"))
	require.NoError(t, err)
	if len(matches) == 0 {
		return ""
	}
	require.Len(t, matches, 1, "expected one %s file", sev)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(data)
}

func countLines(s string) int {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return 0
	}
	return len(strings.Split(s, "\n"))
}
