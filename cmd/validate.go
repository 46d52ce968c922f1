package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/strataml/strata/internal/codec"
	"github.com/strataml/strata/internal/log"
	"github.com/strataml/strata/internal/presentation"
	"github.com/strataml/strata/internal/specfile"
	"github.com/strataml/strata/internal/ui/styles"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Validate spec files against the registry",
	Long: `Validate parses each spec file and resolves it against the registry,
building the full component tree. A spec is valid when every tag, nested
record, and parameter bag resolves.

Examples:
  # Validate one spec
  strata validate model.json

  # Validate a batch and emit machine-readable results
  strata validate specs/*.yaml --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "emit results as JSON")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
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

	results := validateFiles(cmd.Context(), c.cd, args)

	if validateJSON {
		if err := presentation.NewFormatter(cmd.OutOrStdout()).FormatValidations(results); err != nil {
			return err
		}
	} else {
		printValidations(cmd.OutOrStdout(), results)
	}

	failed := 0
	for _, r := range results {
		if !r.Valid {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d specs invalid", failed, len(results))
	}
	return nil
}

// validateFiles resolves each file against the registry, one result per path.
func validateFiles(ctx context.Context, cd *codec.Codec, paths []string) []presentation.ValidationDTO {
	results := make([]presentation.ValidationDTO, 0, len(paths))
	for _, path := range paths {
		spec, err := specfile.Read(path)
		if err != nil {
			results = append(results, presentation.FromValidation(path, "", err))
			continue
		}

		_, err = cd.Deserialize(ctx, spec, nil)
		if err != nil {
			log.ErrorErr(log.CatCLI, "validation failed", err, "path", path)
		}
		results = append(results, presentation.FromValidation(path, spec.Tag, err))
	}
	return results
}

func printValidations(w io.Writer, results []presentation.ValidationDTO) {
	okStyle := lipgloss.NewStyle().Foreground(styles.StatusSuccessColor)
	failStyle := lipgloss.NewStyle().Foreground(styles.StatusErrorColor)

	for _, r := range results {
		if r.Valid {
			fmt.Fprintf(w, "%s  %s (%s)\n", okStyle.Render("ok"), r.Path, r.Tag)
		} else {
			fmt.Fprintf(w, "%s  %s: %s\n", failStyle.Render("fail"), r.Path, r.Error)
		}
	}
}
