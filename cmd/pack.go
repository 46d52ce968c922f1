package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strataml/strata/internal/config"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Manage kind-pack directories",
	Long: `Pack manages the directories scanned for kind-pack manifests. Packs
are YAML files deriving new public names from registered kinds, loaded
every time the registry is built.

Use 'strata registry:list --source deferred' to see what the packs contribute.`,
}

var packAddCmd = &cobra.Command{
	Use:   "add DIR",
	Short: "Add a pack directory to the config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPackAdd,
}

var packRmCmd = &cobra.Command{
	Use:   "rm DIR",
	Short: "Remove a pack directory from the config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPackRm,
}

var packLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List configured pack directories",
	Args:  cobra.NoArgs,
	RunE:  runPackLs,
}

func init() {
	packCmd.AddCommand(packAddCmd)
	packCmd.AddCommand(packRmCmd)
	packCmd.AddCommand(packLsCmd)
	rootCmd.AddCommand(packCmd)
}

func runPackAdd(cmd *cobra.Command, args []string) error {
	path := configFilePath()
	if err := config.AddPackDir(path, args[0], cfg.PackDirs); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", args[0], path)
	return nil
}

func runPackRm(cmd *cobra.Command, args []string) error {
	path := configFilePath()
	if err := config.RemovePackDir(path, args[0], cfg.PackDirs); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s from %s\n", args[0], path)
	return nil
}

func runPackLs(cmd *cobra.Command, args []string) error {
	if len(cfg.PackDirs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no pack directories configured")
		return nil
	}
	for _, dir := range cfg.PackDirs {
		marker := ""
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			marker = "  (missing)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", dir, marker)
	}
	return nil
}
