package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// serverConfig represents the settings for the service, loaded from a TOML
// file with defaults applied for anything left unset.
type serverConfig struct {
	Addr          string   `toml:"addr"`
	LibPath       string   `toml:"lib_path"`
	ModelFile     string   `toml:"model_file"`
	ContextWindow int      `toml:"context_window"`
	NBatch        int      `toml:"n_batch"`
	MaxBodyBytes  int64    `toml:"max_body_bytes"`
	LogLevel      string   `toml:"log_level"`
	LogFormat     string   `toml:"log_format"`
	CORSOrigins   []string `toml:"cors_origins"`
}

func defaultConfig() serverConfig {
	return serverConfig{
		Addr:         ":8600",
		MaxBodyBytes: 64 << 20,
		LogLevel:     "INFO",
		LogFormat:    "json",
	}
}

func loadConfig(path string) (serverConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return serverConfig{}, fmt.Errorf("load-config: reading %q: %w", path, err)
	}

	cfg := defaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return serverConfig{}, fmt.Errorf("load-config: parsing %q: %w", path, err)
	}

	return cfg.withDefaults(), nil
}

func (c serverConfig) withDefaults() serverConfig {
	def := defaultConfig()

	if c.Addr == "" {
		c.Addr = def.Addr
	}

	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = def.MaxBodyBytes
	}

	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}

	if c.LogFormat == "" {
		c.LogFormat = def.LogFormat
	}

	return c
}
