package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logerr"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newViper(t), "")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "/var/log/osquery", cfg.LogDir)
	assert.Equal(t, os.FileMode(0640), cfg.FileMode())
	assert.Empty(t, cfg.RemoteEndpoint)
}

func TestLoad_LegacyLogDir(t *testing.T) {
	tests := []struct {
		name   string
		set    map[string]any
		expect string
	}{
		{name: "legacy only", set: map[string]any{KeyLegacyLogDir: "/tmp/legacy"}, expect: "/tmp/legacy"},
		{name: "current wins", set: map[string]any{KeyLegacyLogDir: "/tmp/legacy", KeyLogDir: "/tmp/current"}, expect: "/tmp/current"},
		{name: "current only", set: map[string]any{KeyLogDir: "/tmp/current"}, expect: "/tmp/current"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper(t)
			for k, val := range tt.set {
				v.Set(k, val)
			}
			cfg, err := Load(v, "")
			require.NoError(t, err)
			assert.Equal(t, tt.expect, cfg.LogDir)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fslogger.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logger2_path: /srv/osquery
logger2_mode: "0600"
ip_address: http://collector:8080/ingest
binary_name: osqueryi
remote_timeout: 3s
`), 0600))

	cfg, err := Load(newViper(t), path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/osquery", cfg.LogDir)
	assert.Equal(t, os.FileMode(0600), cfg.FileMode())
	assert.Equal(t, "http://collector:8080/ingest", cfg.RemoteEndpoint)
	assert.Equal(t, "osqueryi", cfg.BinaryName)
	assert.Equal(t, 3*time.Second, cfg.RemoteTimeout)
	assert.Equal(t, 3*time.Second, cfg.HTTPClientConfig().Timeout)
}

func TestLoad_XDGDefaultFile(t *testing.T) {
	v := newViper(t)
	path := DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("logger2_path: /from/xdg\n"), 0600))

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "/from/xdg", cfg.LogDir)
}

func TestLoad_Environment(t *testing.T) {
	v := newViper(t)
	v.SetEnvPrefix("FSLOGGER")
	v.AutomaticEnv()
	t.Setenv("FSLOGGER_OSQUERY_LOG2_DIR", "/env/legacy")
	t.Setenv("FSLOGGER_LOGGER2_MODE", "0644")

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "/env/legacy", cfg.LogDir)
	assert.Equal(t, os.FileMode(0644), cfg.FileMode())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing config file", func(t *testing.T) {
		_, err := Load(newViper(t), filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.True(t, logerr.IsConfigError(err))
		assert.Contains(t, logerr.Hints(err), "check the file exists and is valid YAML")
	})

	tests := []struct {
		name string
		key  string
		val  any
	}{
		{name: "non-octal mode", key: KeyLogMode, val: "0698"},
		{name: "mode out of range", key: KeyLogMode, val: "17777"},
		{name: "empty binary", key: KeyBinaryName, val: ""},
		{name: "binary with path", key: KeyBinaryName, val: "bin/osqueryd"},
		{name: "negative timeout", key: KeyRemoteTimeout, val: "-1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper(t)
			v.Set(tt.key, tt.val)
			_, err := Load(v, "")
			require.Error(t, err)
			assert.True(t, logerr.IsConfigError(err))
		})
	}
}

func TestParseFileMode(t *testing.T) {
	tests := []struct {
		in      string
		want    os.FileMode
		wantErr bool
	}{
		{in: "0640", want: 0640},
		{in: "640", want: 0640},
		{in: "0o600", want: 0600},
		{in: " 0755 ", want: 0755},
		{in: "", wantErr: true},
		{in: "rw-r-----", wantErr: true},
		{in: "1777", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFileMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTTPClientConfig_TLS(t *testing.T) {
	cfg := Default()
	assert.Nil(t, cfg.HTTPClientConfig().TLSConfig)

	cfg.RemoteCAFile = "/etc/ssl/collector.pem"
	tls := cfg.HTTPClientConfig().TLSConfig
	require.NotNil(t, tls)
	assert.Equal(t, "/etc/ssl/collector.pem", tls.RootCAFile)
	assert.False(t, tls.InsecureSkipVerify)
}

func TestYAML(t *testing.T) {
	cfg := Default()
	cfg.RemoteEndpoint = "http://collector"

	out, err := cfg.YAML()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "/var/log/osquery", decoded["logger2_path"])
	assert.Equal(t, "0640", decoded["logger2_mode"])
	assert.Equal(t, "http://collector", decoded["ip_address"])
	assert.NotContains(t, decoded, "remote_ca_file")
}
