// pkg/httpclient/httpclient.go

package httpclient

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"
)

// NewClient builds an *http.Client from cfg. A nil cfg uses DefaultConfig.
func NewClient(cfg *Config) (*http.Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timeout or TLS settings: %w", err)
	}

	tlsConfig, err := buildTLSConfig(cfg.TLSConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build TLS config: %w", err)
	}

	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: tlsConfig,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
	if len(cfg.Headers) > 0 || cfg.UserAgent != "" {
		client.Transport = &headerTransport{
			base:      transport,
			userAgent: cfg.UserAgent,
			headers:   cfg.Headers,
		}
	}
	return client, nil
}

func buildTLSConfig(cfg *TLSConfig) (*tls.Config, error) {
	if cfg == nil {
		return SecureTLSConfig("")
	}
	if cfg.InsecureSkipVerify {
		return InsecureTLSConfigForDevelopment(), nil
	}
	return SecureTLSConfig(cfg.RootCAFile)
}

// headerTransport stamps static headers onto every outgoing request.
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
	headers   map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	for k, v := range t.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(req)
}
