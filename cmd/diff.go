package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/strataml/strata/internal/codec"
	"github.com/strataml/strata/internal/specfile"
	"github.com/strataml/strata/internal/ui/styles"
)

var diffCmd = &cobra.Command{
	Use:   "diff FILE1 FILE2",
	Short: "Compare two spec files in canonical form",
	Long: `Diff canonicalizes both spec files through the registry before
comparing, so specs that differ only in legacy tags, omitted defaults, or
key order read as equivalent.

Exits non-zero when the canonical forms differ.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
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

	left, err := canonicalJSON(ctx, c.cd, args[0])
	if err != nil {
		return err
	}
	right, err := canonicalJSON(ctx, c.cd, args[1])
	if err != nil {
		return err
	}

	if left == right {
		fmt.Fprintln(cmd.OutOrStdout(), "specs are equivalent")
		return nil
	}

	printDiff(cmd.OutOrStdout(), left, right)
	return fmt.Errorf("specs differ")
}

// canonicalJSON resolves a spec file and renders its canonical form as
// pretty JSON. Map keys marshal sorted, so output is deterministic.
func canonicalJSON(ctx context.Context, cd *codec.Codec, path string) (string, error) {
	spec, err := specfile.Read(path)
	if err != nil {
		return "", err
	}
	comp, err := cd.Deserialize(ctx, spec, nil)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	canonical, err := cd.Serialize(ctx, comp)
	if err != nil {
		return "", fmt.Errorf("serializing %s: %w", path, err)
	}

	data, err := json.MarshalIndent(canonical, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// printDiff writes a line-mode diff of the two canonical forms.
func printDiff(w io.Writer, left, right string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(left, right)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	addStyle := lipgloss.NewStyle().Foreground(styles.StatusSuccessColor)
	delStyle := lipgloss.NewStyle().Foreground(styles.StatusErrorColor)

	for _, d := range diffs {
		for _, line := range splitDiffLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				fmt.Fprintln(w, addStyle.Render("+ "+line))
			case diffmatchpatch.DiffDelete:
				fmt.Fprintln(w, delStyle.Render("- "+line))
			default:
				fmt.Fprintln(w, "  "+line)
			}
		}
	}
}

func splitDiffLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
