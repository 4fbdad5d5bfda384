package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"claudecfg/internal/config"

	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the configuration file for changes",
	Long: `Watch the configuration file and print one line per change.

Each line carries the event time, the operation (create, update, delete),
and the file path. Saves made by atomic replacement, the way this tool and
Claude Code write the file, surface as create events. Rapid bursts of
writes are merged into a single event per debounce window.

The command runs until interrupted (Ctrl+C).

Examples:
  claudecfg watch
  claudecfg watch --debounce 2s`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", config.DefaultDebounceInterval, "How long to wait for a burst of changes to settle")
}

func runWatch(cmd *cobra.Command, args []string) error {
	baseCtx := cmd.Context()
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	// Handle interrupts gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		cancel()
	}()

	store, err := newStore()
	if err != nil {
		return err
	}

	watcher := config.NewWatcher(store.ConfigPath(), watchDebounce)
	changes := make(chan config.ChangeEvent, 16)
	if err := watcher.Start(ctx, changes); err != nil {
		return err
	}
	defer watcher.Stop()

	if !rootQuiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (debounce %s)\n", store.ConfigPath(), watchDebounce)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-changes:
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-6s  %s\n",
				event.Timestamp.Format(time.RFC3339), event.Operation, event.Path)
		}
	}
}
