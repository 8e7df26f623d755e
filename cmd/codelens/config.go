package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// hostConfig is the CLI's own configuration, loaded from YAML with
// CODELENS_* environment overrides. It lives outside the orchestrator's
// library boundary: orchestrator.Config is built from this, not the
// other way around.
type hostConfig struct {
	RootPath string       `yaml:"rootPath"`
	DataDir  string       `yaml:"dataDir"`
	Workers  int          `yaml:"workers"`
	Embed    embedConfig  `yaml:"embed"`
	Logging  loggingConfg `yaml:"logging"`
}

type embedConfig struct {
	Enabled   bool   `yaml:"enabled"`
	BaseURL   string `yaml:"baseUrl"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batchSize"`
}

type loggingConfg struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaultHostConfig() *hostConfig {
	home, _ := os.UserHomeDir()
	return &hostConfig{
		RootPath: ".",
		DataDir:  filepath.Join(home, ".codelens"),
		Workers:  0, // 0 means orchestrator picks runtime.NumCPU()
		Embed: embedConfig{
			Enabled:   false,
			BaseURL:   "http://localhost:11434",
			Model:     "all-minilm",
			Dimension: 384,
			BatchSize: 100,
		},
		Logging: loggingConfg{
			Level:  "info",
			Format: "text",
		},
	}
}

// loadHostConfig reads a YAML config file (if path is non-empty and
// exists) and applies CODELENS_* environment variable overrides on top.
func loadHostConfig(path string) (*hostConfig, error) {
	cfg := defaultHostConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, applyHostEnvOverrides(cfg)
			}
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := applyHostEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyHostEnvOverrides(cfg *hostConfig) error {
	if v := os.Getenv("CODELENS_ROOT_PATH"); v != "" {
		cfg.RootPath = v
	}
	if v := os.Getenv("CODELENS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("CODELENS_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CODELENS_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("CODELENS_EMBED_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CODELENS_EMBED_ENABLED: %w", err)
		}
		cfg.Embed.Enabled = b
	}
	if v := os.Getenv("CODELENS_EMBED_BASE_URL"); v != "" {
		cfg.Embed.BaseURL = v
	}
	if v := os.Getenv("CODELENS_EMBED_MODEL"); v != "" {
		cfg.Embed.Model = v
	}
	if v := os.Getenv("CODELENS_EMBED_DIMENSION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CODELENS_EMBED_DIMENSION: %w", err)
		}
		cfg.Embed.Dimension = n
	}
	if v := os.Getenv("CODELENS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CODELENS_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	return nil
}
