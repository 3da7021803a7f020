// Package config loads and validates application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sortwise/sortwise/internal/common"
	"github.com/sortwise/sortwise/internal/ollama"
	"github.com/sortwise/sortwise/internal/pipeline"
)

// Config is the resolved application configuration.
type Config struct {
	Ollama   ollama.Config
	Server   ServerConfig
	Storage  StorageConfig
	Pipeline PipelineConfig
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string
}

// StorageConfig configures analysis persistence.
type StorageConfig struct {
	DatabasePath string
	Enabled      bool
}

// PipelineConfig configures file discovery and analysis.
type PipelineConfig struct {
	SupportedExtensions []string
	MaxFileSizeMB       int64
	EnableHashing       bool
}

// ToPipelineConfig converts the loaded settings into the pipeline's
// runtime configuration.
func (p PipelineConfig) ToPipelineConfig() pipeline.Config {
	return pipeline.Config{
		SupportedExtensions: p.SupportedExtensions,
		MaxFileSize:         p.MaxFileSizeMB * 1024 * 1024,
		EnableHashing:       p.EnableHashing,
	}
}

// Load resolves configuration from Viper (config file or SORTWISE_ env
// vars) with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Ollama: ollama.Config{
			BaseURL:     viper.GetString("ollama.url"),
			Model:       viper.GetString("ollama.model"),
			Timeout:     viper.GetDuration("ollama.timeout"),
			MaxTokens:   viper.GetInt("ollama.max_tokens"),
			Temperature: viper.GetFloat64("ollama.temperature"),
			MaxRetries:  viper.GetInt("ollama.max_retries"),
			RetryDelay:  viper.GetDuration("ollama.retry_delay"),
		},
		Server: ServerConfig{
			Addr: viper.GetString("server.addr"),
		},
		Storage: StorageConfig{
			Enabled:      viper.GetBool("storage.enabled"),
			DatabasePath: ExpandPath(viper.GetString("storage.database_path")),
		},
		Pipeline: PipelineConfig{
			SupportedExtensions: viper.GetStringSlice("pipeline.supported_extensions"),
			MaxFileSizeMB:       viper.GetInt64("pipeline.max_file_size_mb"),
			EnableHashing:       viper.GetBool("pipeline.enable_hashing"),
		},
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = defaultDatabasePath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration for values the runtime
// cannot recover from.
func (c *Config) Validate() error {
	if c.Ollama.BaseURL == "" {
		return fmt.Errorf("%w: ollama.url", common.ErrMissingConfig)
	}
	if c.Ollama.Model == "" {
		return fmt.Errorf("%w: ollama.model", common.ErrMissingConfig)
	}
	if c.Pipeline.MaxFileSizeMB < 0 {
		return fmt.Errorf("%w: pipeline.max_file_size_mb must not be negative", common.ErrInvalidConfig)
	}
	if c.Ollama.Timeout < 0 {
		return fmt.Errorf("%w: ollama.timeout must not be negative", common.ErrInvalidConfig)
	}
	if c.Ollama.Temperature < 0 || c.Ollama.Temperature > 2 {
		return fmt.Errorf("%w: ollama.temperature must be between 0 and 2", common.ErrInvalidConfig)
	}
	return nil
}

// SetDefaults registers configuration defaults with Viper. Called once
// during CLI initialization, before any config file is read.
func SetDefaults() {
	viper.SetDefault("ollama.url", "http://localhost:11434")
	viper.SetDefault("ollama.model", "llama3:latest")
	viper.SetDefault("ollama.timeout", 120*time.Second)
	viper.SetDefault("ollama.max_tokens", 512)
	viper.SetDefault("ollama.temperature", 0.3)
	viper.SetDefault("ollama.max_retries", 3)
	viper.SetDefault("ollama.retry_delay", 2*time.Second)
	viper.SetDefault("server.addr", ":8000")
	viper.SetDefault("storage.enabled", true)
	viper.SetDefault("pipeline.max_file_size_mb", 100)
	viper.SetDefault("pipeline.enable_hashing", false)
}

// ExpandPath resolves a leading ~ to the home directory and expands
// $VAR references, so config values can use either convention.
func ExpandPath(path string) string {
	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return os.ExpandEnv(path)
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sortwise.db"
	}
	return filepath.Join(home, ".local", "share", "sortwise", "sortwise.db")
}
