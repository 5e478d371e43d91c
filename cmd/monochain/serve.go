package monochain

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/monochain/monochain/internal/config"
	"github.com/monochain/monochain/internal/metrics"
	"github.com/monochain/monochain/internal/server"
	"github.com/monochain/monochain/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the central authority as a small HTTP service",
	Long:  `Serve the chain over a REST API: read blocks, submit data for mining, and check chain validity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serveConfig := config.LoadServeConfigFromCLI()
		if err := serveConfig.Validate(); err != nil {
			return fmt.Errorf("invalid serve configuration: %w", err)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		handleInterrupt(cancel)

		ledger, st, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if serveConfig.EnablePrometheus {
			var db *sql.DB
			if pg, ok := st.(*store.Postgres); ok {
				db = pg.DB()
			}
			metricsServer, err := metrics.CreateMetricsServer(ledger, db, serveConfig.PrometheusAddr)
			if err != nil {
				return fmt.Errorf("failed to start metrics server: %w", err)
			}
			defer shutdown(metricsServer)
		}

		apiServer := server.New(ledger, serveConfig.Address)
		errChan := make(chan error, 1)
		go func() {
			slog.Info("API server started", "address", serveConfig.Address)
			if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()
		defer shutdown(apiServer)

		select {
		case err := <-errChan:
			return fmt.Errorf("API server failed: %w", err)
		case <-ctx.Done():
			return nil
		}
	},
}

func init() {
	serveCmd.Flags().StringP("address", "a", "0.0.0.0:5000", "Address and port of the API server")
	serveCmd.Flags().Bool("enable-prometheus", false, "Enable Prometheus metrics server")
	serveCmd.Flags().String("prometheus-addr", "0.0.0.0:2112", "Address and port of the Prometheus metrics server")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		slog.Error("Failed to bind serveCmd flags", "error", err)
	}
}

// handleInterrupt handles interrupt signals for graceful shutdown.
func handleInterrupt(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		slog.Info("Received interrupt signal, shutting down...")
		cancel()
	}()
}

func shutdown(s *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		slog.Error("Failed to shut down server", "address", s.Addr, "error", err)
	}
}
