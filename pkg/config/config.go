// Package config loads the router settings from flags, environment and an
// optional YAML file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/httpclient"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logerr"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/shared"
	cerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Keys keep the host's flag names.
const (
	KeyLogDir            = "logger2_path"
	KeyLegacyLogDir      = "osquery_log2_dir"
	KeyLogMode           = "logger2_mode"
	KeyRemoteEndpoint    = "ip_address"
	KeyBinaryName        = "binary_name"
	KeyRemoteTimeout     = "remote_timeout"
	KeyRemoteInsecureTLS = "remote_insecure_tls"
	KeyRemoteCAFile      = "remote_ca_file"
)

// Config is the effective router configuration.
type Config struct {
	LogDir            string        `mapstructure:"logger2_path" yaml:"logger2_path"`
	LogMode           string        `mapstructure:"logger2_mode" yaml:"logger2_mode" validate:"required,filemode"`
	RemoteEndpoint    string        `mapstructure:"ip_address" yaml:"ip_address"`
	BinaryName        string        `mapstructure:"binary_name" yaml:"binary_name" validate:"required,excludesall=/"`
	RemoteTimeout     time.Duration `mapstructure:"remote_timeout" yaml:"remote_timeout" validate:"gte=0"`
	RemoteInsecureTLS bool          `mapstructure:"remote_insecure_tls" yaml:"remote_insecure_tls"`
	RemoteCAFile      string        `mapstructure:"remote_ca_file" yaml:"remote_ca_file,omitempty"`
}

// Default is the configuration with nothing set.
func Default() *Config {
	return &Config{
		LogDir:     shared.DefaultLogDir,
		LogMode:    shared.DefaultLogMode,
		BinaryName: shared.DefaultBinaryName,
	}
}

// SetDefaults registers defaults on v. logger2_path has none here: it falls
// back to the legacy key first, see Load.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogMode, shared.DefaultLogMode)
	v.SetDefault(KeyBinaryName, shared.DefaultBinaryName)
	v.SetDefault(KeyRemoteTimeout, time.Duration(0))
	v.SetDefault(KeyRemoteInsecureTLS, false)
}

// Load reads configFile (or the XDG default when it exists), decodes v and
// validates the result.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile == "" {
		if def := DefaultConfigPath(); fileExists(def) {
			configFile = def
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, cerr.WithHint(
				logerr.WrapConfigError(logerr.NewConfigError("failed to read config file", configFile, err)),
				"check the file exists and is valid YAML")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, logerr.NewConfigError("failed to decode configuration", "", err)
	}
	cfg.LogDir = firstNonEmpty(v.GetString(KeyLogDir), v.GetString(KeyLegacyLogDir), shared.DefaultLogDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	_ = val.RegisterValidation("filemode", func(fl validator.FieldLevel) bool {
		_, err := ParseFileMode(fl.Field().String())
		return err == nil
	})
	return val
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return cerr.WithHint(
			logerr.WrapConfigError(logerr.NewConfigError("invalid configuration", "", err)),
			"logger2_mode is an octal permission such as 0640; binary_name must not contain a path separator")
	}
	return nil
}

// FileMode is LogMode parsed. Validate guarantees it parses.
func (c *Config) FileMode() os.FileMode {
	mode, err := ParseFileMode(c.LogMode)
	if err != nil {
		return shared.RuntimeFilePerms
	}
	return mode
}

// HTTPClientConfig is the forwarder's HTTP client configuration.
func (c *Config) HTTPClientConfig() *httpclient.Config {
	hc := httpclient.DefaultConfig()
	hc.Timeout = c.RemoteTimeout
	if c.RemoteInsecureTLS || c.RemoteCAFile != "" {
		hc.TLSConfig = &httpclient.TLSConfig{
			InsecureSkipVerify: c.RemoteInsecureTLS,
			RootCAFile:         c.RemoteCAFile,
		}
	}
	return hc
}

// YAML renders the configuration for `config show`.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, cerr.Wrap(err, "marshal config")
	}
	return out, nil
}

// ParseFileMode accepts octal permission strings: "0640", "640", "0o640".
func ParseFileMode(s string) (os.FileMode, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0o")
	if s == "" {
		return 0, cerr.New("empty file mode")
	}
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, cerr.Wrapf(err, "file mode %q is not octal", s)
	}
	if n > 0o777 {
		return 0, cerr.Newf("file mode %q has bits outside 0777", s)
	}
	return os.FileMode(n), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
