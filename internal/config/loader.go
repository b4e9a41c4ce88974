package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads and parses the configuration file. Absent keys keep
// their defaults; a missing file yields the default configuration.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Detection: DetectionConfig{
			MaxWorkspaces:    1000,
			Timeout:          Duration(30 * time.Second),
			EnableCache:      true,
			MaxManifestBytes: 1 << 20,
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: Duration(2 * time.Second),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPOLENS_MAX_WORKSPACES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Detection.MaxWorkspaces = n
		}
	}
	if v := os.Getenv("REPOLENS_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Detection.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("REPOLENS_ENABLE_CACHE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Detection.EnableCache = b
		}
	}
	if v := os.Getenv("REPOLENS_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Watch.Enabled = b
		}
	}
	if v := os.Getenv("REPOLENS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("REPOLENS_LOG_FILE"); v != "" {
		cfg.Logging.Path = v
	}
}

// validate checks if the configuration is valid. Non-positive limits
// are programming errors and fail fast; an oversized timeout is
// clamped to the hard cap.
func validate(cfg *Config) error {
	if cfg.Detection.MaxWorkspaces <= 0 {
		return fmt.Errorf("detection.max_workspaces must be positive, got %d", cfg.Detection.MaxWorkspaces)
	}
	if cfg.Detection.Timeout <= 0 {
		return fmt.Errorf("detection.timeout must be positive, got %s", cfg.Detection.Timeout)
	}
	if cfg.Detection.MaxManifestBytes <= 0 {
		return fmt.Errorf("detection.max_manifest_bytes must be positive, got %d", cfg.Detection.MaxManifestBytes)
	}
	if cfg.Detection.Timeout > Duration(5*time.Minute) {
		cfg.Detection.Timeout = Duration(5 * time.Minute)
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = Duration(2 * time.Second)
	}
	return nil
}
