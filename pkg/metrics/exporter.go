package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"shardexec/pkg/logging"
)

// Prober reports whether named data sources are reachable.
type Prober interface {
	Names() []string
	Ping(ctx context.Context, name string) error
}

// Exporter serves the engine registry over HTTP and keeps DataSourceUpGauge
// current by probing every data source on an interval.
type Exporter struct {
	prober   Prober
	interval time.Duration
	timeout  time.Duration
	server   *http.Server
	log      *zap.Logger
}

// NewExporter creates an exporter listening on addr. A non-positive interval
// disables the probe loop.
func NewExporter(addr string, prober Prober, interval time.Duration) *Exporter {
	e := &Exporter{
		prober:   prober,
		interval: interval,
		timeout:  5 * time.Second,
		log:      logging.WithComponent("exporter"),
	}
	e.server = &http.Server{
		Addr:         addr,
		Handler:      e.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return e
}

// Handler routes /metrics to the registry and /health to a liveness check.
func (e *Exporter) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	return mux
}

// Probe pings every data source once and returns how many are down.
func (e *Exporter) Probe(ctx context.Context) int {
	down := 0
	for _, name := range e.prober.Names() {
		pctx, cancel := context.WithTimeout(ctx, e.timeout)
		err := e.prober.Ping(pctx, name)
		cancel()

		if err != nil {
			down++
			DataSourceUpGauge.WithLabelValues(name).Set(0)
			e.log.Warn("data source probe failed", zap.String("data_source", name), zap.Error(err))
			continue
		}
		DataSourceUpGauge.WithLabelValues(name).Set(1)
	}
	return down
}

// Run probes and serves until ctx is cancelled, then shuts the server down.
func (e *Exporter) Run(ctx context.Context) error {
	if e.interval > 0 {
		go e.probeLoop(ctx)
	}

	errc := make(chan error, 1)
	go func() {
		e.log.Info("metrics exporter listening", zap.String("addr", e.server.Addr))
		errc <- e.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (e *Exporter) probeLoop(ctx context.Context) {
	e.Probe(ctx)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Probe(ctx)
		}
	}
}
