package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strataml/strata/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the strata config file",
	Long: `Config inspects and edits the active config file. Discovery checks
.strata/config.yaml in the working directory first, then
~/.config/strata/config.yaml.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Init writes a commented starter config to .strata/config.yaml (or the
path given with --config). Refuses to overwrite an existing file.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configV2Cmd = &cobra.Command{
	Use:   "v2 on|off",
	Short: "Toggle v2 resolution in the config file",
	Long: `V2 flips the v2 key in the config file. The STRATA_V2 environment
variable and the --v2 flag still override it per invocation.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigV2,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configV2Cmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFilePath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func runConfigV2(cmd *cobra.Command, args []string) error {
	var v2 bool
	switch args[0] {
	case "on":
		v2 = true
	case "off":
		v2 = false
	default:
		return fmt.Errorf("expected on or off, got %q", args[0])
	}

	path := configFilePath()
	if err := config.SaveV2(path, v2); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "v2 %s in %s\n", args[0], path)
	return nil
}
