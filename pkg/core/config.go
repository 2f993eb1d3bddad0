// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds wupd configuration
type Config struct {
	WingetPath       string        `yaml:"winget_path"`
	Source           string        `yaml:"source"`
	IncludeUnknown   bool          `yaml:"include_unknown"`
	AcceptAgreements bool          `yaml:"accept_agreements"`
	Silent           bool          `yaml:"silent"`
	Concurrency      int           `yaml:"concurrency"`
	Timeout          time.Duration `yaml:"timeout"`
	CachePath        string        `yaml:"cache_path"`
	HoldsFile        string        `yaml:"holds_file"`
	HistoryDir       string        `yaml:"history_dir"`
	Debug            bool          `yaml:"debug"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	cache := getDefaultCachePath()
	return &Config{
		WingetPath:       "", // Resolved from PATH
		IncludeUnknown:   true,
		AcceptAgreements: true,
		Silent:           true,
		Concurrency:      1,
		Timeout:          30 * time.Minute,
		CachePath:        cache,
		HoldsFile:        filepath.Join(getConfigDir(), "holds.toml"),
		HistoryDir:       filepath.Join(cache, "history"),
		Debug:            false,
	}
}

// DefaultConfigPath is where LoadConfig looks when no path is given
func DefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// LoadConfig loads configuration from file. Keys missing from the file keep
// their defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func getConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "wupd")
	}
	return filepath.Join(home, ".config", "wupd")
}

func getDefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "wupd")
	}
	return filepath.Join(home, ".cache", "wupd")
}
