// Package config loads runtime configuration for displayshift.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultXRandRPath = "xrandr"
	defaultIntervalS  = 2
	// configFileName sits inside the user config directory.
	configFileName = "config.yaml"
)

// Config holds runtime configuration values.
type Config struct {
	// StoreDir is the profile store root.
	StoreDir string `yaml:"store_dir"`
	// DefaultProfile is applied when no fingerprint matches; empty
	// disables the fallback.
	DefaultProfile string `yaml:"default_profile"`
	// XRandRPath is the xrandr binary used by the default backend.
	XRandRPath string `yaml:"xrandr_path"`
	// ListenAddr serves watch-mode state and events when non-empty.
	ListenAddr string `yaml:"listen_addr"`
	// IntervalSeconds is the watch-mode polling interval.
	IntervalSeconds int `yaml:"interval_seconds"`
}

// Load reads configuration from the config file and environment
// variables. Precedence: defaults, then file, then environment.
func Load() (Config, error) {
	cfg := Config{
		XRandRPath:      defaultXRandRPath,
		IntervalSeconds: defaultIntervalS,
	}

	configDir, err := defaultConfigDir()
	if err != nil {
		return Config{}, err
	}
	cfg.StoreDir = configDir

	// The config file location is fixed; relocating the store through
	// store_dir, DISPLAYSHIFT_DIR, or -dir does not move the file.
	if err := loadFile(filepath.Join(configDir, configFileName), &cfg); err != nil {
		return Config{}, err
	}

	cfg.StoreDir = envString("DISPLAYSHIFT_DIR", cfg.StoreDir)
	cfg.DefaultProfile = envString("DISPLAYSHIFT_DEFAULT", cfg.DefaultProfile)
	cfg.XRandRPath = envString("DISPLAYSHIFT_XRANDR", cfg.XRandRPath)
	cfg.ListenAddr = envString("DISPLAYSHIFT_LISTEN", cfg.ListenAddr)

	interval, err := envInt("DISPLAYSHIFT_INTERVAL", cfg.IntervalSeconds)
	if err != nil {
		return Config{}, err
	}
	if interval <= 0 {
		return Config{}, fmt.Errorf("polling interval must be > 0")
	}
	cfg.IntervalSeconds = interval

	return cfg, nil
}

// defaultConfigDir is the per-user configuration directory; it is also
// the default store root.
func defaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(base, "displayshift"), nil
}

// loadFile merges config file values over the current config. A
// missing file is not an error.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}
