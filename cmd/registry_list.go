package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strataml/strata/internal/presentation"
	"github.com/strataml/strata/internal/registry"
)

var (
	regSource string
	regFuncs  bool
)

var registryListCmd = &cobra.Command{
	Use:   "registry:list",
	Short: "List all registered kinds",
	Long: `List every name the registry resolves, as JSON.

Each entry reports the public name, the canonical kind it builds, its doc
string, and which population phase registered it (baseline, v2, alias,
deferred, shortcut). Use --source to filter by phase and --funcs to keep
only bare function bindings.

Examples:
  # List everything
  strata registry:list

  # Only legacy aliases
  strata registry:list --source alias

  # Only function bindings (shortcuts and pack-derived kinds)
  strata registry:list --funcs

  # What does the v2 catalog look like?
  strata registry:list --v2 | jq '.[].name'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := initLogging(false)
		if err != nil {
			return err
		}
		defer cleanup()

		c, err := newComponents(cmd)
		if err != nil {
			return err
		}
		defer c.shutdown()

		if err := c.reg.Ensure(); err != nil {
			return fmt.Errorf("populating registry: %w", err)
		}

		entries := c.reg.Entries()
		if cmd.Flags().Changed("source") {
			entries = filterBySource(entries, registry.Source(regSource))
		}
		if regFuncs {
			entries = filterFuncs(entries)
		}

		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		return formatter.FormatEntries(presentation.FromEntries(entries))
	},
}

func init() {
	registryListCmd.Flags().StringVarP(&regSource, "source", "s", "", "Filter by population source (baseline, v2, alias, deferred, shortcut)")
	registryListCmd.Flags().BoolVar(&regFuncs, "funcs", false, "Only function bindings without a descriptor")
	rootCmd.AddCommand(registryListCmd)
}

// filterBySource keeps entries registered by the given population phase.
func filterBySource(entries []registry.Entry, source registry.Source) []registry.Entry {
	result := make([]registry.Entry, 0)
	for _, e := range entries {
		if e.Source == source {
			result = append(result, e)
		}
	}
	return result
}

// filterFuncs keeps entries backed by a bare builder function.
func filterFuncs(entries []registry.Entry) []registry.Entry {
	result := make([]registry.Entry, 0)
	for _, e := range entries {
		if e.Descriptor == nil {
			result = append(result, e)
		}
	}
	return result
}
