// pkg/metrics/metrics.go
//
// Prometheus counters for the log router. Registered on the default registry
// at package init; cmd serves them when --metrics-addr is set.

package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/gorilla/mux"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	// writesTotal counts file writes by category and result
	writesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fslogger_writes_total",
		Help: "Total log file writes by category and result",
	}, []string{"category", "result"})

	// forwardsTotal counts remote forwards by result
	forwardsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fslogger_forwards_total",
		Help: "Total remote forward attempts by result",
	}, []string{"result"})

	// statusEntriesTotal counts status entries by severity
	statusEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fslogger_status_entries_total",
		Help: "Total status entries handed to the system log bridge by severity",
	}, []string{"severity"})
)

// ObserveWrite records one file write.
func ObserveWrite(category string, err error) {
	writesTotal.WithLabelValues(category, result(err)).Inc()
}

// ObserveForward records one remote forward attempt.
func ObserveForward(err error) {
	forwardsTotal.WithLabelValues(result(err)).Inc()
}

// ObserveStatus records one status entry.
func ObserveStatus(severity string) {
	statusEntriesTotal.WithLabelValues(severity).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// Server serves Handler on /metrics, and /healthz, until Shutdown.
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// Serve listens on addr and serves /metrics in the background.
func Serve(addr string, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, cerr.Wrapf(err, "listen on %s", addr)
	}
	r := mux.NewRouter()
	r.Handle("/metrics", Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)
	s := &Server{
		srv: &http.Server{Handler: r, ReadHeaderTimeout: 5 * time.Second},
		ln:  ln,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("Metrics server stopped", zap.Error(err))
		}
	}()
	log.Info("Serving metrics", zap.String("addr", ln.Addr().String()))
	return s, nil
}

// Addr is the bound address.
func (s *Server) Addr() string { return s.ln.Addr().String() }

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
