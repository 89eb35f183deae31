// Package cmd implements the autochroma command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autochroma/autochroma/internal/config"
	"github.com/autochroma/autochroma/internal/engine"
	"github.com/autochroma/autochroma/internal/ffmpeg"
	"github.com/autochroma/autochroma/internal/keyest"
	"github.com/autochroma/autochroma/internal/logging"
	"github.com/autochroma/autochroma/internal/registry"
	"github.com/autochroma/autochroma/internal/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "autochroma",
	Short: "Chroma-key render engine for solid-background video and images",
	Long: `autochroma estimates the background color of solid-color media and
drives ffmpeg to produce alpha-transparent WebM/PNG renders.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads config and wires logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logging.Configure(logging.Config{Level: cfg.LogLevel, Console: cfg.LogConsole})
	return cfg, nil
}

// buildEngine assembles the render engine from configuration. metrics may
// be nil for commands that do not export them.
func buildEngine(cfg *config.Config, metrics registry.Recorder) (*engine.Engine, error) {
	if err := os.MkdirAll(cfg.OutputBase(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	reg := registry.New(registry.Options{
		MaxConcurrent: cfg.MaxConcurrentRenders,
		GracePeriod:   cfg.CancelGracePeriod,
		Logger:        logging.WithComponent("registry"),
		Metrics:       metrics,
	})

	return engine.New(engine.Options{
		FFmpegPath:  cfg.FFmpegPath,
		FFprobePath: cfg.FFprobePath,
		Assets:      store.NewAssetStore(ffmpeg.NewProber(cfg.FFprobePath)),
		Outputs:     store.NewOutputStore(cfg.OutputBase()),
		Registry:    reg,
		Estimator:   keyest.NewEstimator(ffmpeg.NewSampler(cfg.FFmpegPath)),
		Logger:      logging.WithComponent("engine"),
	}), nil
}
