package httpclient

import (
	"fmt"
	"time"
)

// Config represents HTTP client configuration options for the remote forwarder
type Config struct {
	// Timeout bounds a whole request. Zero means no bound: a hanging
	// collector stalls the calling goroutine until it answers.
	Timeout   time.Duration     `json:"timeout" yaml:"timeout"`
	UserAgent string            `json:"user_agent" yaml:"user_agent"`
	Headers   map[string]string `json:"headers" yaml:"headers"`

	// TLS configuration
	TLSConfig *TLSConfig `json:"tls" yaml:"tls"`
}

// TLSConfig defines TLS settings for https endpoints
type TLSConfig struct {
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	RootCAFile         string `json:"root_ca_file" yaml:"root_ca_file"`
}

// DefaultConfig returns the forwarder's default configuration
func DefaultConfig() *Config {
	return &Config{
		Timeout:   0,
		UserAgent: "fslogger/1.0",
		Headers:   make(map[string]string),
		TLSConfig: &TLSConfig{},
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *Config {
	config := DefaultConfig()
	config.Timeout = 5 * time.Second
	return config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return &ConfigError{Field: "Timeout", Message: "cannot be negative"}
	}
	if c.TLSConfig != nil && c.TLSConfig.InsecureSkipVerify && c.TLSConfig.RootCAFile != "" {
		return &ConfigError{Field: "TLSConfig", Message: "root_ca_file has no effect with insecure_skip_verify"}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config field %s: %s", e.Field, e.Message)
}
