package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/autochroma/autochroma/internal/api"
	"github.com/autochroma/autochroma/internal/logging"
	"github.com/autochroma/autochroma/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve the render API. Media files found in the configured asset
directory are registered at startup.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logging.WithComponent("serve")

	promReg := prometheus.NewRegistry()
	eng, err := buildEngine(cfg, metrics.New(promReg))
	if err != nil {
		return err
	}

	if cfg.AssetDir != "" {
		assets, err := eng.Assets().RegisterDir(cmd.Context(), cfg.AssetDir)
		if err != nil {
			return err
		}
		log.Info().Int("count", len(assets)).Str("dir", cfg.AssetDir).Msg("assets registered")
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewServer(eng, logging.WithComponent("api")).Router(promReg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}
}
