package forwarder

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/httpclient"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type captured struct {
	mu          sync.Mutex
	bodies      []string
	contentType string
	method      string
}

func newCollector(t *testing.T, status int) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.bodies = append(c.bodies, string(body))
		c.contentType = r.Header.Get("Content-Type")
		c.method = r.Method
		c.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte("ignored"))
	}))
	t.Cleanup(server.Close)
	return server, c
}

func TestForward_PostsWrappedPayload(t *testing.T) {
	server, got := newCollector(t, http.StatusOK)
	core, logs := observer.New(zapcore.DebugLevel)

	f := New(server.URL, httpclient.TestConfig(), zap.New(core))
	require.NoError(t, f.InitError())

	f.Forward(context.Background(), `{"name":"processes","action":"added"}`)

	got.mu.Lock()
	defer got.mu.Unlock()
	require.Len(t, got.bodies, 1)
	assert.Equal(t, `[{"name":"processes","action":"added"}]`, got.bodies[0])
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, ContentType, got.contentType)
	assert.Zero(t, logs.Len())
}

func TestForward_FailuresAreDiagnosticsOnly(t *testing.T) {
	rejecting, _ := newCollector(t, http.StatusServiceUnavailable)
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name     string
		endpoint string
		cfg      *httpclient.Config
		wantMsg  string
	}{
		{name: "server error status", endpoint: rejecting.URL, cfg: httpclient.TestConfig(), wantMsg: "collector rejected entry"},
		{name: "connection refused", endpoint: closedURL, cfg: httpclient.TestConfig(), wantMsg: "request failed"},
		{name: "not a url", endpoint: "/var/log/osquery", cfg: nil, wantMsg: "invalid remote endpoint"},
		{name: "missing host", endpoint: "http://", cfg: nil, wantMsg: "invalid remote endpoint"},
		{
			name:     "bad client config",
			endpoint: "https://collector.invalid",
			cfg:      &httpclient.Config{TLSConfig: &httpclient.TLSConfig{RootCAFile: "/nonexistent/ca.pem"}},
			wantMsg:  "failed to initialize HTTP client",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			f := New(tt.endpoint, tt.cfg, zap.New(core))

			assert.NotPanics(t, func() {
				f.Forward(context.Background(), "payload")
			})

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, "Remote forward failed", entry.Message)
			assert.Equal(t, zapcore.WarnLevel, entry.Level)
			assert.Contains(t, entry.ContextMap()["error"], tt.wantMsg)
		})
	}
}

func TestNew_InitErrorIsNetworkKind(t *testing.T) {
	f := New("ftp://collector", nil, nil)
	require.Error(t, f.InitError())
	assert.True(t, logerr.IsNetworkError(f.InitError()))
	assert.Equal(t, "ftp://collector", f.Endpoint())
}

func TestWrapPayload(t *testing.T) {
	assert.Equal(t, "[]", WrapPayload(""))
	assert.Equal(t, "[foo]", WrapPayload("foo"))
}
