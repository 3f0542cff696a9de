package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	formatAuto  = "auto"
	formatHex   = "hex"
	formatArmor = "armor"
)

// cliConfig is the resolved otrdecode runtime configuration.
type cliConfig struct {
	InputFormat string
	ProfilePath string
	MetricsAddr string
	LogLevel    string
}

// otrdecode config.toml key mapping.
type fileConfig struct {
	InputFormat string `toml:"input_format"`
	ProfilePath string `toml:"profile_path"`
	MetricsAddr string `toml:"metrics_addr"`
	LogLevel    string `toml:"log_level"`
}

func defaultCLIConfig() cliConfig {
	return cliConfig{
		InputFormat: formatAuto,
	}
}

// otrdecode loader for TOML config with default overlay.
func loadCLIConfig(path string) (cliConfig, error) {
	cfg := defaultCLIConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return cliConfig{}, fmt.Errorf("load otrdecode config: %w", err)
	}

	if meta.IsDefined("input_format") {
		cfg.InputFormat = strings.ToLower(strings.TrimSpace(raw.InputFormat))
	}
	if meta.IsDefined("profile_path") {
		cfg.ProfilePath = resolveRelative(path, raw.ProfilePath)
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cliConfig{}, fmt.Errorf("load otrdecode config: unknown key %q", undecoded[0].String())
	}

	if err := validateCLIConfig(cfg); err != nil {
		return cliConfig{}, fmt.Errorf("load otrdecode config: %w", err)
	}
	return cfg, nil
}

func validateCLIConfig(cfg cliConfig) error {
	switch cfg.InputFormat {
	case formatAuto, formatHex, formatArmor:
	default:
		return fmt.Errorf("unsupported input_format %q (expected auto, hex or armor)", cfg.InputFormat)
	}
	return nil
}

func resolveRelative(configPath, target string) string {
	resolved := strings.TrimSpace(target)
	if resolved == "" || filepath.IsAbs(resolved) {
		return resolved
	}
	return filepath.Join(filepath.Dir(configPath), resolved)
}
