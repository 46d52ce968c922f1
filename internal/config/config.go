// Package config provides configuration types and defaults for strata.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/strataml/strata/internal/log"
	"github.com/strataml/strata/internal/paths"
	"github.com/strataml/strata/internal/tracing"
)

// Config holds all configuration options for strata.
type Config struct {
	// V2 resolves tags against the v2 layer implementations.
	V2       bool          `mapstructure:"v2"`
	PackDirs []string      `mapstructure:"pack_dirs"`
	Store    StoreConfig   `mapstructure:"store"`
	Watch    WatchConfig   `mapstructure:"watch"`
	Tracing  TracingConfig `mapstructure:"tracing"`
}

// StoreConfig holds config-store settings.
type StoreConfig struct {
	// Path is the sqlite database file.
	// Default: ~/.config/strata/configs.db
	Path string `mapstructure:"path"`

	// CacheTTL is how long point lookups stay cached.
	// Default: 10m
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// WatchConfig holds spec-file watcher settings.
type WatchConfig struct {
	// Debounce collapses bursts of filesystem events into one revalidation.
	// Default: 400ms
	Debounce time.Duration `mapstructure:"debounce"`

	// Extensions filters which files trigger revalidation.
	// Default: [.json, .yaml, .yml]
	Extensions []string `mapstructure:"extensions"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/strata/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// TracerConfig converts to the provider config consumed by the tracing
// package, expanding ~ and filling the file path default when unset.
func (t TracingConfig) TracerConfig() tracing.Config {
	filePath := paths.ExpandHome(t.FilePath)
	if filePath == "" {
		filePath = DefaultTracesFilePath()
	}
	return tracing.Config{
		Enabled:      t.Enabled,
		Exporter:     t.Exporter,
		FilePath:     filePath,
		OTLPEndpoint: t.OTLPEndpoint,
		SampleRate:   t.SampleRate,
	}
}

// DefaultStorePath returns the default sqlite file for the config store.
// Returns ~/.config/strata/configs.db or empty string if home dir unavailable.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "strata", "configs.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/strata/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "strata", "traces", "traces.jsonl")
}

// DefaultPackDir returns the default directory for user kind packs.
// Returns ~/.config/strata/packs or empty string if home dir unavailable.
func DefaultPackDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "strata", "packs")
}

// DefaultWatchExtensions returns the spec-file extensions the watcher
// reacts to.
func DefaultWatchExtensions() []string {
	return []string{".json", ".yaml", ".yml"}
}

// ValidatePackDirs checks pack directory configuration for errors.
// Directories do not have to exist; missing ones are skipped at load.
func ValidatePackDirs(dirs []string) error {
	for i, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("pack_dirs[%d]: directory must not be empty", i)
		}
	}
	return nil
}

// ValidateStore checks store configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateStore(store StoreConfig) error {
	if store.CacheTTL < 0 {
		return fmt.Errorf("store.cache_ttl must not be negative, got %v", store.CacheTTL)
	}
	return nil
}

// ValidateWatch checks watcher configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateWatch(watch WatchConfig) error {
	if watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %v", watch.Debounce)
	}
	for i, ext := range watch.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("watch.extensions[%d] must start with a dot, got %q", i, ext)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	if tracing.Enabled {
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Validate checks the full configuration for errors.
func Validate(cfg Config) error {
	if err := ValidatePackDirs(cfg.PackDirs); err != nil {
		return err
	}
	if err := ValidateStore(cfg.Store); err != nil {
		return err
	}
	if err := ValidateWatch(cfg.Watch); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		V2:       false,
		PackDirs: nil,
		Store: StoreConfig{
			Path:     DefaultStorePath(),
			CacheTTL: 10 * time.Minute,
		},
		Watch: WatchConfig{
			Debounce:   400 * time.Millisecond,
			Extensions: DefaultWatchExtensions(),
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Strata Configuration

# Resolve tags against the v2 layer implementations.
# The STRATA_V2 environment variable and the --v2 flag both override this.
v2: false

# Directories scanned for kind-pack manifests (*.yaml / *.yml).
# Packs derive new public names from built-in kinds with default params.
# pack_dirs:
#   - ~/.config/strata/packs

# Config store settings
store:
  # Sqlite database file (default: ~/.config/strata/configs.db)
  # path: /path/to/configs.db

  # How long point lookups stay cached
  cache_ttl: 10m

# Spec file watcher settings ('strata watch')
watch:
  # Collapse bursts of filesystem events into one revalidation
  debounce: 400ms

  # File extensions that trigger revalidation
  extensions: [".json", ".yaml", ".yml"]

# Distributed tracing configuration
# Gives end-to-end visibility into deserialize and store operations
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/strata/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
#
# Example: Enable tracing with file export
# tracing:
#   enabled: true
#   exporter: file
#
# Example: Send traces to Jaeger via OTLP
# tracing:
#   enabled: true
#   exporter: otlp
#   otlp_endpoint: jaeger.internal:4317
#   sample_rate: 0.1  # Sample 10% of traces
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
