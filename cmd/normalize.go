package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/strataml/strata/internal/specfile"
)

var (
	normalizeOut    string
	normalizeFormat string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize FILE",
	Short: "Rewrite a spec in canonical form",
	Long: `Normalize deserializes a spec file and re-serializes the resulting
component tree: legacy alias tags become canonical, omitted parameters are
materialized with their defaults, and derived pack kinds collapse to their
target kind.

The canonical spec is printed to stdout, or written to a file with -o
(format chosen by the file extension).

Examples:
  strata normalize legacy.json
  strata normalize legacy.json --format yaml
  strata normalize legacy.json -o canonical.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeOut, "output", "o", "", "write the canonical spec to this file")
	normalizeCmd.Flags().StringVar(&normalizeFormat, "format", "json", "stdout format: json or yaml")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
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

	ctx := cmd.Context()

	spec, err := specfile.Read(args[0])
	if err != nil {
		return err
	}
	comp, err := c.cd.Deserialize(ctx, spec, nil)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}
	canonical, err := c.cd.Serialize(ctx, comp)
	if err != nil {
		return fmt.Errorf("serializing %s: %w", args[0], err)
	}

	if normalizeOut != "" {
		return specfile.Write(normalizeOut, canonical)
	}

	switch normalizeFormat {
	case "json":
		data, err := json.MarshalIndent(canonical, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	case "yaml":
		data, err := yaml.Marshal(canonical)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", normalizeFormat)
	}
	return nil
}
