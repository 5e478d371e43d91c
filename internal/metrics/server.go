package metrics

import (
	"database/sql"
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/monochain/monochain/internal/metrics/collectors"
	sqlcollectors "github.com/monochain/monochain/internal/metrics/collectors/sql"
)

// CreateMetricsServer starts a Prometheus metrics server on addr and returns
// it so the caller can shut it down. The SQL collector is only registered
// when a database handle is available (PostgreSQL backend).
func CreateMetricsServer(ledger collectors.LedgerInfo, db *sql.DB, addr string) (*http.Server, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(minerCollectors()...)
	if ledger != nil {
		registry.MustRegister(collectors.NewLedgerCollector(ledger))
	}
	if db != nil {
		registry.MustRegister(sqlcollectors.NewTotalBlockCountCollector(db))
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics server failed", "error", err)
		}
	}()

	slog.Info("Metrics server started", "address", addr)
	return server, nil
}
