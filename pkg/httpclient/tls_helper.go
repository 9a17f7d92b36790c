package httpclient

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// SecureTLSConfig creates a TLS configuration that validates certificates,
// optionally against a custom CA bundle.
func SecureTLSConfig(caCertPath string) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if caCertPath != "" {
		caCert, err := os.ReadFile(caCertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate from %s: %w", caCertPath, err)
		}

		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate from %s", caCertPath)
		}

		tlsConfig.RootCAs = caCertPool
	}

	return tlsConfig, nil
}

// InsecureTLSConfigForDevelopment creates a TLS config that skips validation.
// SECURITY WARNING: only for collectors on a trusted segment with self-signed certs.
func InsecureTLSConfigForDevelopment() *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: true, // #nosec G402 - opt-in via remote_insecure_tls
		MinVersion:         tls.VersionTLS12,
	}
}
