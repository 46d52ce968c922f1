package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/strataml/strata/internal/log"
	"github.com/strataml/strata/internal/ui/browse"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the registry interactively",
	Long: `Browse opens a terminal browser over the registry catalog. Use j/k to
move, / to filter by name, and q to quit. The detail pane shows each
kind's source, canonical name, and documentation.

With --debug, ctrl+x opens a pane tailing the debug log.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cleanup, err := initLogging(true)
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
	mode, _ := c.reg.LastMode()

	// The listener feeds the ctrl+x log pane; only worth attaching when
	// the logger is actually writing.
	var listener *log.LogListener
	if debugEnabled() {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		listener = log.NewListener(ctx)
	}

	model := browse.NewWithLogs(c.reg.Entries(), mode, listener)
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
