package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ragdex-labs/ragdex-cli/internal/adapters/driven/watch"
	"github.com/ragdex-labs/ragdex-cli/internal/core/services"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and keep it ingested",
	Long: `Watches a directory for file changes. Created and modified files
are ingested automatically, deleted files are removed from the library.
Runs until interrupted with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce,
		"delay before processing a burst of changes")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := args[0]

	watcher := watch.NewWatcher(watch.WithDebounce(watchDebounce))
	defer watcher.Close() //nolint:errcheck

	svc := services.NewWatchService(watcher, ingestService)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dir)

	err := svc.Run(ctx, dir)
	if errors.Is(err, context.Canceled) {
		cmd.Println("\nStopped.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
