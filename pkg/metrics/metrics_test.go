package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestObserveWrite(t *testing.T) {
	before := testutil.ToFloat64(writesTotal.WithLabelValues("snapshot", ResultError))
	ObserveWrite("snapshot", errors.New("disk full"))
	ObserveWrite("snapshot", nil)
	assert.Equal(t, before+1, testutil.ToFloat64(writesTotal.WithLabelValues("snapshot", ResultError)))
}

func TestObserveForward(t *testing.T) {
	before := testutil.ToFloat64(forwardsTotal.WithLabelValues(ResultOK))
	ObserveForward(nil)
	assert.Equal(t, before+1, testutil.ToFloat64(forwardsTotal.WithLabelValues(ResultOK)))
}

func TestObserveStatus(t *testing.T) {
	before := testutil.ToFloat64(statusEntriesTotal.WithLabelValues("WARNING"))
	ObserveStatus("WARNING")
	assert.Equal(t, before+1, testutil.ToFloat64(statusEntriesTotal.WithLabelValues("WARNING")))
}

func TestServe(t *testing.T) {
	srv, err := Serve("127.0.0.1:0", zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	ObserveWrite("differential", nil)

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `fslogger_writes_total{category="differential",result="ok"}`)
}

func TestServe_Healthz(t *testing.T) {
	srv, err := Serve("127.0.0.1:0", zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	post, err := http.Post("http://"+srv.Addr()+"/metrics", "text/plain", nil)
	require.NoError(t, err)
	defer post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}

func TestServe_BadAddress(t *testing.T) {
	_, err := Serve("256.0.0.1:http", zaptest.NewLogger(t))
	assert.Error(t, err)
}
