// pkg/httpclient/httpclient_test.go
package httpclient

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewClient tests client creation with various configurations
func TestNewClient(t *testing.T) {
	badCA := filepath.Join(t.TempDir(), "bad.pem")
	require.NoError(t, os.WriteFile(badCA, []byte("not a certificate"), 0600))

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "default config",
			config: DefaultConfig(),
		},
		{
			name:   "nil config uses default",
			config: nil,
		},
		{
			name:    "negative timeout",
			config:  &Config{Timeout: -1 * time.Second},
			wantErr: true,
			errMsg:  "invalid timeout",
		},
		{
			name:    "missing CA file",
			config:  &Config{TLSConfig: &TLSConfig{RootCAFile: "/nonexistent/ca.pem"}},
			wantErr: true,
			errMsg:  "failed to build TLS config",
		},
		{
			name:    "unparseable CA file",
			config:  &Config{TLSConfig: &TLSConfig{RootCAFile: badCA}},
			wantErr: true,
			errMsg:  "failed to build TLS config",
		},
		{
			name:    "insecure with CA file",
			config:  &Config{TLSConfig: &TLSConfig{InsecureSkipVerify: true, RootCAFile: badCA}},
			wantErr: true,
			errMsg:  "root_ca_file",
		},
		{
			name:   "insecure",
			config: &Config{TLSConfig: &TLSConfig{InsecureSkipVerify: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

// TestNewClient_DefaultIsUnbounded documents that no timeout is applied by default
func TestNewClient_DefaultIsUnbounded(t *testing.T) {
	client, err := NewClient(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), client.Timeout)
}

// TestNewClient_Headers verifies static headers and user agent are sent
func TestNewClient_Headers(t *testing.T) {
	var gotUA, gotTenant string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotTenant = r.Header.Get("X-Tenant")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	cfg := TestConfig()
	cfg.Headers["X-Tenant"] = "blue"

	client, err := NewClient(cfg)
	require.NoError(t, err)

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "fslogger/1.0", gotUA)
	assert.Equal(t, "blue", gotTenant)
}
