package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/strataml/strata/internal/builtins"
	"github.com/strataml/strata/internal/codec"
	"github.com/strataml/strata/internal/config"
	"github.com/strataml/strata/internal/log"
	"github.com/strataml/strata/internal/paths"
	"github.com/strataml/strata/internal/registry"
	"github.com/strataml/strata/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	v2Flag    bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Validate, normalize, and archive layer config specs",
	Long: `strata resolves tagged config records against a registry of layer kinds.
It validates spec files, rewrites legacy tags into canonical form, diffs
configs, archives named configs in a local store, and browses the
registry catalog.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/strata/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"enable debug logging to file")
	rootCmd.PersistentFlags().BoolVar(&v2Flag, "v2", false,
		"activate v2 kinds (overrides STRATA_V2 and the config file)")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("v2", defaults.V2)
	viper.SetDefault("pack_dirs", defaults.PackDirs)
	viper.SetDefault("store.path", defaults.Store.Path)
	viper.SetDefault("store.cache_ttl", defaults.Store.CacheTTL)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("watch.extensions", defaults.Watch.Extensions)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .strata/config.yaml (current directory)
		// 2. ~/.config/strata/config.yaml (user config)
		if _, err := os.Stat(".strata/config.yaml"); err == nil {
			viper.SetConfigFile(".strata/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "strata"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// Running without a config file is fine; `strata config init`
		// writes a starter one.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "reading config: %v\n", err)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// debugEnabled reports whether debug logging was requested by flag or env.
func debugEnabled() bool {
	return debugFlag || os.Getenv("STRATA_DEBUG") != ""
}

// initLogging enables the file logger when --debug or STRATA_DEBUG is set.
// tui routes log output through a tea-aware writer so it does not corrupt
// an active Bubble Tea screen.
func initLogging(tui bool) (func(), error) {
	if !debugEnabled() {
		return func() {}, nil
	}

	logPath := os.Getenv("STRATA_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	if tui {
		return log.InitWithTeaLog(logPath, "strata")
	}
	return log.Init(logPath)
}

// resolveProbe picks the mode probe. Precedence: the --v2 flag, then the
// STRATA_V2 environment variable, then the config file value.
func resolveProbe(flagChanged, flagValue, cfgValue bool) func() bool {
	if flagChanged {
		return func() bool { return flagValue }
	}
	if _, ok := os.LookupEnv(builtins.EnvVar); ok {
		return builtins.EnvProbe
	}
	return func() bool { return cfgValue }
}

// components holds the wiring for one invocation. shutdown flushes the
// tracing provider when one was started.
type components struct {
	reg      *registry.Registry
	cd       *codec.Codec
	opts     builtins.Options
	tracer   trace.Tracer // nil when tracing is disabled
	shutdown func()
}

// rebuild swaps in a fresh registry and codec with the same wiring.
// Watch rebuilds per change cycle so pack edits take effect.
func (c *components) rebuild() {
	c.reg, c.cd = builtins.New(c.opts)
}

// newComponents wires the registry and codec for one invocation.
func newComponents(cmd *cobra.Command) (*components, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	c := &components{
		opts: builtins.Options{
			Probe:    resolveProbe(cmd.Flags().Changed("v2"), v2Flag, cfg.V2),
			PackDirs: paths.ExpandAll(cfg.PackDirs),
		},
		shutdown: func() {},
	}
	if cfg.Tracing.Enabled {
		provider, err := tracing.NewProvider(cfg.Tracing.TracerConfig())
		if err != nil {
			return nil, fmt.Errorf("initializing tracing: %w", err)
		}
		c.tracer = provider.Tracer()
		c.opts.Tracer = c.tracer
		c.shutdown = func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = provider.Shutdown(ctx)
		}
	}

	c.rebuild()
	return c, nil
}

// configFilePath reports where config edits should land: the file viper
// loaded, or the project-local default when none was found.
func configFilePath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	return ".strata/config.yaml"
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
