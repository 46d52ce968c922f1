package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/strataml/strata/internal/paths"
	"github.com/strataml/strata/internal/presentation"
	"github.com/strataml/strata/internal/specfile"
	"github.com/strataml/strata/internal/store"
)

var (
	storeJSON bool
	storeOut  string
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the named config archive",
	Long: `Store keeps named configs in a sqlite archive. Specs are normalized
through the registry on save, so stored configs always carry canonical
tags and fully resolved params.

The archive location comes from store.path in the config file.`,
}

var storeSaveCmd = &cobra.Command{
	Use:   "save NAME FILE",
	Short: "Normalize a spec file and store it under NAME",
	Long: `Save parses FILE, resolves it against the registry, and upserts the
canonical form under NAME. Saving an existing name overwrites it.

Examples:
  # Store a spec under a name
  strata store save encoder model.json

  # Capture the stored record as JSON
  strata store save encoder model.json --json | jq '.id'`,
	Args: cobra.ExactArgs(2),
	RunE: runStoreSave,
}

var storeGetCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Fetch a stored config",
	Long: `Get prints the record stored under NAME as JSON. With -o the spec
alone is written to a file, JSON or YAML by extension.

Examples:
  # Print the stored record
  strata store get encoder

  # Extract the spec back into a file
  strata store get encoder -o encoder.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runStoreGet,
}

var storeLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored configs",
	Args:  cobra.NoArgs,
	RunE:  runStoreLs,
}

var storeRmCmd = &cobra.Command{
	Use:   "rm NAME",
	Short: "Delete a stored config",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreRm,
}

func init() {
	storeSaveCmd.Flags().BoolVar(&storeJSON, "json", false, "emit the stored record as JSON")
	storeGetCmd.Flags().StringVarP(&storeOut, "output", "o", "", "write the spec to a file instead of stdout")
	storeLsCmd.Flags().BoolVar(&storeJSON, "json", false, "emit records as JSON")

	storeCmd.AddCommand(storeSaveCmd)
	storeCmd.AddCommand(storeGetCmd)
	storeCmd.AddCommand(storeLsCmd)
	storeCmd.AddCommand(storeRmCmd)
	rootCmd.AddCommand(storeCmd)
}

// openStore wires the codec and opens the archive at store.path. The
// returned cleanup closes the store and flushes tracing.
func openStore(cmd *cobra.Command) (*store.Store, func(), error) {
	c, err := newComponents(cmd)
	if err != nil {
		return nil, nil, err
	}

	path := paths.ExpandHome(cfg.Store.Path)
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			c.shutdown()
			return nil, nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	opts := []store.Option{store.WithCacheTTL(cfg.Store.CacheTTL)}
	if c.tracer != nil {
		opts = append(opts, store.WithTracer(c.tracer))
	}

	s, err := store.Open(path, c.cd, opts...)
	if err != nil {
		c.shutdown()
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	cleanup := func() {
		_ = s.Close()
		c.shutdown()
	}
	return s, cleanup, nil
}

func runStoreSave(cmd *cobra.Command, args []string) error {
	cleanup, err := initLogging(false)
	if err != nil {
		return err
	}
	defer cleanup()

	s, closeStore, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	spec, err := specfile.Read(args[1])
	if err != nil {
		return err
	}

	rec, err := s.Save(cmd.Context(), args[0], spec)
	if err != nil {
		return fmt.Errorf("saving %q: %w", args[0], err)
	}

	if storeJSON {
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatResult(rec)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", rec.Name, rec.ID)
	return nil
}

func runStoreGet(cmd *cobra.Command, args []string) error {
	cleanup, err := initLogging(false)
	if err != nil {
		return err
	}
	defer cleanup()

	s, closeStore, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	rec, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if storeOut != "" {
		return specfile.Write(storeOut, rec.Spec)
	}
	return presentation.NewFormatter(cmd.OutOrStdout()).FormatResult(rec)
}

func runStoreLs(cmd *cobra.Command, args []string) error {
	cleanup, err := initLogging(false)
	if err != nil {
		return err
	}
	defer cleanup()

	s, closeStore, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	records, err := s.List(cmd.Context())
	if err != nil {
		return err
	}

	if storeJSON {
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatResult(records)
	}
	for _, rec := range records {
		fmt.Fprintf(cmd.OutOrStdout(), "%-24s %-24s %s\n",
			rec.Name, rec.Tag, rec.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}

func runStoreRm(cmd *cobra.Command, args []string) error {
	cleanup, err := initLogging(false)
	if err != nil {
		return err
	}
	defer cleanup()

	s, closeStore, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := s.Remove(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
	return nil
}
