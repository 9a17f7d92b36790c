// Package testutil holds filesystem assertions shared by the package tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =====================================
// File System Testing Utilities
// =====================================

// CreateTestDir creates a test directory with specified permissions
func CreateTestDir(t *testing.T, dir, dirname string, perm os.FileMode) string {
	t.Helper()
	dirpath := filepath.Join(dir, dirname)
	require.NoError(t, os.MkdirAll(dirpath, perm))
	// MkdirAll applies the umask; pin the bits the test asked for.
	require.NoError(t, os.Chmod(dirpath, perm))
	return dirpath
}

// AssertFileExists verifies that a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	require.NoError(t, err, "expected file to exist: %s", path)
}

// AssertFileNotExists verifies that a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "expected file to not exist: %s", path)
}

// AssertFilePermissions verifies file permissions
func AssertFilePermissions(t *testing.T, path string, expectedPerm os.FileMode) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, expectedPerm, info.Mode().Perm(), "permissions of %s", path)
}

// AssertFileSize verifies the file length in bytes
func AssertFileSize(t *testing.T, path string, size int64) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, size, info.Size(), "size of %s", path)
}

// AssertFileContent verifies file content matches expected
func AssertFileContent(t *testing.T, path, expected string) {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, expected, string(content))
}

// ReadLines returns the newline-terminated lines of path without their
// terminators. A missing trailing newline fails the test.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	if len(content) == 0 {
		return nil
	}
	require.True(t, strings.HasSuffix(string(content), "\n"), "%s does not end in a newline", path)
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}

// GlobOne returns the single file matching pattern under dir.
func GlobOne(t *testing.T, dir, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	require.NoError(t, err)
	require.Len(t, matches, 1, "files matching %s in %s", pattern, dir)
	return matches[0]
}
