package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/strataml/strata/internal/log"
	"github.com/strataml/strata/internal/presentation"
	"github.com/strataml/strata/internal/pubsub"
	"github.com/strataml/strata/internal/ui/styles"
	"github.com/strataml/strata/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [PATH...]",
	Short: "Revalidate spec files when they change",
	Long: `Watch monitors the given paths (current directory by default) and
revalidates spec files as they change. Directory events are filtered by
the configured extensions; explicitly named files always count.

Each cycle rebuilds the registry, so pack edits take effect on the next
change. Results stream to stdout until interrupted.

Examples:
  # Watch the current directory
  strata watch

  # Watch a specs tree plus one file outside it
  strata watch specs/ model.json`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	w, err := watcher.New(watcher.Config{
		Paths:       paths,
		DebounceDur: cfg.Watch.Debounce,
		Extensions:  cfg.Watch.Extensions,
	})
	if err != nil {
		return err
	}
	onChange, err := w.Start()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer func() { _ = w.Stop() }()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	broker := pubsub.NewBroker[presentation.ValidationDTO]()
	defer broker.Close()
	events := broker.Subscribe(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "watching %s\n", strings.Join(paths, ", "))
	fmt.Fprintln(out, "Press Ctrl+C to stop")
	log.Info(log.CatWatch, "watch started", "paths", strings.Join(paths, ","), "debounce", cfg.Watch.Debounce)

	for {
		select {
		case sig := <-sigCh:
			fmt.Fprintf(out, "\nReceived %s, stopping\n", sig)
			return nil
		case changed := <-onChange:
			revalidate(ctx, c, changed, broker)
		case ev := <-events:
			printWatchEvent(out, ev)
		}
	}
}

// revalidate runs one refresh cycle over the changed files, publishing
// a result per path.
func revalidate(ctx context.Context, c *components, paths []string, broker *pubsub.Broker[presentation.ValidationDTO]) {
	c.rebuild()
	log.Info(log.CatWatch, "change detected", "files", len(paths))

	for _, r := range validateFiles(ctx, c.cd, paths) {
		if r.Valid {
			log.Info(log.CatWatch, "spec valid", "path", r.Path, "tag", r.Tag)
		} else {
			log.Warn(log.CatWatch, "spec invalid", "path", r.Path, "error", r.Error)
		}
		broker.Publish(pubsub.RefreshedEvent, r)
	}
}

func printWatchEvent(w io.Writer, ev pubsub.Event[presentation.ValidationDTO]) {
	okStyle := lipgloss.NewStyle().Foreground(styles.StatusSuccessColor)
	failStyle := lipgloss.NewStyle().Foreground(styles.StatusErrorColor)

	ts := ev.Timestamp.Format("15:04:05")
	r := ev.Payload
	if r.Valid {
		fmt.Fprintf(w, "%s %s  %s (%s)\n", ts, okStyle.Render("ok"), r.Path, r.Tag)
	} else {
		fmt.Fprintf(w, "%s %s  %s: %s\n", ts, failStyle.Render("fail"), r.Path, r.Error)
	}
}
