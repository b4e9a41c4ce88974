package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts "30s" style YAML values, which yaml.v3 does not
// decode into a bare time.Duration. Integer values read as
// nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}
	*d = Duration(n)
	return nil
}

func (d Duration) String() string { return time.Duration(d).String() }

// Std returns the wrapped standard duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config represents the global application configuration
type Config struct {
	// Detection configuration
	Detection DetectionConfig `yaml:"detection"`

	// Watch configuration (cache invalidation on filesystem change)
	Watch WatchConfig `yaml:"watch"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`
}

// DetectionConfig bounds the workspace topology detector
type DetectionConfig struct {
	// MaxWorkspaces caps how many workspaces enumeration may return
	MaxWorkspaces int `yaml:"max_workspaces"`

	// Timeout bounds each detection strategy; hard-capped at 5m
	Timeout Duration `yaml:"timeout"`

	// EnableCache controls the glob resolver cache. Disable for
	// deterministic testing.
	EnableCache bool `yaml:"enable_cache"`

	// MaxManifestBytes bounds individual manifest reads
	MaxManifestBytes int64 `yaml:"max_manifest_bytes"`
}

// WatchConfig controls the fsnotify-based cache invalidator
type WatchConfig struct {
	// Enabled turns the watcher on for long-lived server sessions
	Enabled bool `yaml:"enabled"`

	// Debounce is the quiet period before the cache is cleared
	Debounce Duration `yaml:"debounce"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Path  string `yaml:"path"`  // optional log file
}
