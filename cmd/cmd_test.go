package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logerr"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runResult struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestLogResult(t *testing.T) {
	dir := t.TempDir()
	res := run(t, "", "log", "result", "--logger2_path", dir, "foo", "bar")
	require.NoError(t, res.err, res.stderr)

	results := filepath.Join(dir, "osqueryd.results.log")
	testutil.AssertFileContent(t, results, "[foo]\n[bar]\n")
	testutil.AssertFilePermissions(t, results, 0640)

	info, err := os.ReadFile(testutil.GlobOne(t, dir, "osqueryd.INFO.*"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "filesystem2 logger plugin started for osqueryd")
}

func TestLogResult_TruncatesOnEachRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, run(t, "", "log", "result", "--logger2_path", dir, "first").err)
	require.NoError(t, run(t, "", "log", "result", "--logger2_path", dir, "second").err)

	testutil.AssertFileContent(t, filepath.Join(dir, "osqueryd.results.log"), "[second]\n")
}

func TestLogSnapshot_FromStdin(t *testing.T) {
	dir := t.TempDir()
	res := run(t, "one\n\ntwo\r\n", "log", "snapshot", "--logger2_path", dir, "--binary_name", "osqueryi", "--logger2_mode", "0600")
	require.NoError(t, res.err, res.stderr)

	snapshots := filepath.Join(dir, "osqueryi.snapshots.log")
	testutil.AssertFileContent(t, snapshots, "one\ntwo\n")
	testutil.AssertFilePermissions(t, snapshots, 0600)
	testutil.AssertFileSize(t, filepath.Join(dir, "osqueryi.results.log"), 0)
}

func TestLogStatus(t *testing.T) {
	dir := t.TempDir()
	res := run(t, "", "log", "status", "--logger2_path", dir,
		"--severity", "warning", "--file", "scheduler.cpp", "--line", "88", "query took too long")
	require.NoError(t, res.err, res.stderr)

	warning, err := os.ReadFile(testutil.GlobOne(t, dir, "osqueryd.WARNING.*"))
	require.NoError(t, err)
	assert.Contains(t, string(warning), "query took too long")
	assert.Contains(t, string(warning), "scheduler.cpp:88")

	matches, err := filepath.Glob(filepath.Join(dir, "osqueryd.ERROR.*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestLogStatus_BadSeverity(t *testing.T) {
	res := run(t, "", "log", "status", "--logger2_path", t.TempDir(), "--severity", "LOUD", "x")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unknown severity")
}

func TestLogResult_LegacyDirectoryFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FSLOGGER_OSQUERY_LOG2_DIR", dir)

	require.NoError(t, run(t, "", "log", "result", "legacy").err)
	testutil.AssertFileContent(t, filepath.Join(dir, "osqueryd.results.log"), "[legacy]\n")
}

func TestLogResult_ForwardFailureIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	res := run(t, "", "log", "result", "--logger2_path", dir, "--ip_address", "http://127.0.0.1:1/ingest", "kept")
	require.NoError(t, res.err)

	testutil.AssertFileContent(t, filepath.Join(dir, "osqueryd.results.log"), "[kept]\n")
	assert.Contains(t, res.stderr, "Remote forward failed")
}

func TestPlugins(t *testing.T) {
	res := run(t, "", "plugins")
	require.NoError(t, res.err)
	assert.Equal(t, "filesystem2\n", res.stdout)
}

func TestConfigShow(t *testing.T) {
	t.Setenv("FSLOGGER_IP_ADDRESS", "http://collector:9000")
	res := run(t, "", "config", "show", "--logger2_path", "/srv/osquery")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "logger2_path: /srv/osquery")
	assert.Contains(t, res.stdout, "ip_address: http://collector:9000")
	assert.Contains(t, res.stdout, "binary_name: osqueryd")
}

func TestInvalidConfig(t *testing.T) {
	res := run(t, "", "plugins", "--logger2_mode", "rw-r-----")
	require.Error(t, res.err)
	assert.True(t, logerr.IsConfigError(res.err))
}

func TestEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(t.TempDir(), "fslogger.env")
	require.NoError(t, os.WriteFile(envFile, []byte("FSLOGGER_LOGGER2_PATH="+dir+"\nFSLOGGER_BINARY_NAME=osqueryi\n"), 0600))
	t.Cleanup(func() {
		_ = os.Unsetenv("FSLOGGER_LOGGER2_PATH")
		_ = os.Unsetenv("FSLOGGER_BINARY_NAME")
	})

	res := run(t, "", "log", "result", "--env-file", envFile, "from-env")
	require.NoError(t, res.err, res.stderr)
	testutil.AssertFileContent(t, filepath.Join(dir, "osqueryi.results.log"), "[from-env]\n")

	missing := run(t, "", "plugins", "--env-file", filepath.Join(dir, "absent.env"))
	require.Error(t, missing.err)
	assert.True(t, logerr.IsConfigError(missing.err))
}
