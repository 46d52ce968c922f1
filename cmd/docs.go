package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/strataml/strata/internal/registry"
)

var docsCmd = &cobra.Command{
	Use:   "docs KIND",
	Short: "Show documentation for a registered kind",
	Long: `Docs renders the markdown doc string of a registered kind for the
terminal. Aliases resolve to their canonical kind.

Examples:
  strata docs Dense
  strata docs BatchNormalizationV1`,
	Args: cobra.ExactArgs(1),
	RunE: runDocs,
}

func init() {
	rootCmd.AddCommand(docsCmd)
}

func runDocs(cmd *cobra.Command, args []string) error {
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

	entry, ok := c.reg.Resolve(args[0])
	if !ok {
		return fmt.Errorf("unknown kind %q (try 'strata registry:list')", args[0])
	}

	rendered, err := renderDoc(docMarkdown(entry))
	if err != nil {
		return fmt.Errorf("rendering doc: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

// docMarkdown assembles the markdown page for one entry.
func docMarkdown(entry registry.Entry) string {
	var md strings.Builder
	md.WriteString("# " + entry.Name + "\n\n")

	if entry.Descriptor != nil && entry.Descriptor.Kind() != entry.Name {
		fmt.Fprintf(&md, "Alias of **%s**.\n\n", entry.Descriptor.Kind())
	}

	if entry.Doc != "" {
		md.WriteString(entry.Doc)
	} else {
		md.WriteString("_No documentation._")
	}

	fmt.Fprintf(&md, "\n\n---\n\nsource: %s\n", entry.Source)
	return md.String()
}

// renderDoc renders markdown for the terminal, picking the glamour style
// from the terminal background. Piped output gets the ANSI stripped so
// grep/jq pipelines stay clean.
func renderDoc(md string) (string, error) {
	style := "dark"
	if !termenv.HasDarkBackground() {
		style = "light"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}

	out, err := r.Render(md)
	if err != nil {
		return "", err
	}

	if termenv.ColorProfile() == termenv.Ascii {
		return ansi.Strip(out), nil
	}
	return out, nil
}
