// Package forwarder mirrors differential results to a remote collector.
//
// Delivery is best effort: one blocking POST per entry, no retry, and every
// failure ends as a single line on the diagnostic stream (stderr).
package forwarder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/httpclient"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/logerr"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/metrics"
	"github.com/CodeMonkeyCybersecurity/fslogger/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// ContentType is what a form-style POST of raw text is sent as.
const ContentType = "application/x-www-form-urlencoded"

// Forwarder posts "[payload]" to a fixed endpoint.
type Forwarder struct {
	endpoint string
	client   *http.Client
	initErr  error
	diag     *zap.Logger
}

// New prepares a forwarder for endpoint. It never fails: a bad endpoint or
// client config is remembered and reported on every Forward instead.
// diag receives failure diagnostics; it should write to stderr.
func New(endpoint string, cfg *httpclient.Config, diag *zap.Logger) *Forwarder {
	if diag == nil {
		diag = zap.NewNop()
	}
	f := &Forwarder{
		endpoint: endpoint,
		diag:     diag.Named("forwarder"),
	}

	if err := validateEndpoint(endpoint); err != nil {
		f.initErr = logerr.NewNetworkError("invalid remote endpoint", endpoint, err)
		return f
	}

	client, err := httpclient.NewClient(cfg)
	if err != nil {
		f.initErr = logerr.NewNetworkError("failed to initialize HTTP client", endpoint, err)
		return f
	}
	f.client = client
	return f
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

// WrapPayload is the body sent for payload.
func WrapPayload(payload string) string {
	return "[" + payload + "]"
}

// Endpoint is the configured collector URL.
func (f *Forwarder) Endpoint() string { return f.endpoint }

// InitError is the reason the forwarder cannot send, if any.
func (f *Forwarder) InitError() error { return f.initErr }

// Forward sends payload once. It blocks for the duration of the request and
// never returns an error; failures are written to the diagnostic logger.
func (f *Forwarder) Forward(ctx context.Context, payload string) {
	ctx, span := telemetry.Start(ctx, "forwarder.Forward",
		attribute.String("endpoint", f.endpoint),
		attribute.Int("payload_bytes", len(payload)))
	defer span.End()

	err := f.post(ctx, payload)
	metrics.ObserveForward(err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "forward failed")
		f.diag.Warn("Remote forward failed",
			zap.String("endpoint", f.endpoint),
			zap.Error(err))
		return
	}
	span.SetStatus(codes.Ok, "")
}

func (f *Forwarder) post(ctx context.Context, payload string) error {
	if f.initErr != nil {
		return f.initErr
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, strings.NewReader(WrapPayload(payload)))
	if err != nil {
		return logerr.NewNetworkError("failed to build request", f.endpoint, err)
	}
	req.Header.Set("Content-Type", ContentType)

	resp, err := f.client.Do(req)
	if err != nil {
		return logerr.NewNetworkError("request failed", f.endpoint, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return logerr.NewNetworkError("collector rejected entry", f.endpoint, fmt.Errorf("HTTP %s", resp.Status))
	}
	return nil
}
