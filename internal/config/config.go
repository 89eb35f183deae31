// Package config loads application configuration from an optional YAML
// file, AUTOCHROMA_* environment variables, and defaults.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DataDir  string `mapstructure:"data_dir"`  // base for assets/outputs/previews/logs
	AssetDir string `mapstructure:"asset_dir"` // directory scanned for assets at startup

	FFmpegPath  string `mapstructure:"ffmpeg_path"`
	FFprobePath string `mapstructure:"ffprobe_path"`

	ListenAddr string `mapstructure:"listen_addr"`

	MaxConcurrentRenders int           `mapstructure:"max_concurrent_renders"`
	CancelGracePeriod    time.Duration `mapstructure:"cancel_grace_period"`

	LogLevel   string `mapstructure:"log_level"`
	LogConsole bool   `mapstructure:"log_console"`
}

// OutputBase returns the directory holding job outputs, previews and logs.
func (c *Config) OutputBase() string {
	return filepath.Join(c.DataDir, "data")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", ".")
	v.SetDefault("asset_dir", "")
	v.SetDefault("ffmpeg_path", "ffmpeg")
	v.SetDefault("ffprobe_path", "ffprobe")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("max_concurrent_renders", 0) // 0 = number of CPUs
	v.SetDefault("cancel_grace_period", 5*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_console", false)
}

// Load reads configuration. path may name a YAML file; when empty only
// defaults and AUTOCHROMA_* environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AUTOCHROMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
