package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/litegen/cmd/litegen/output"
)

var (
	// Watch flags
	debounce time.Duration
)

// watchCmd regenerates when the project file changes
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the adapters whenever the project file changes",
	Long: `Generate the adapters, then watch the project file and generate again
after every change. Errors are printed and watching goes on.

Examples:
  litegen watch -c litegen.yaml
  litegen watch -c litegen.yaml --debounce 500ms`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&target, "target", "t", "", "Output directory (overrides the project)")
	watchCmd.Flags().StringVar(&modelsDir, "models-dir", "", "Directory of the model package for helper types")
	watchCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Store a schema snapshot at this path and report changes")
	watchCmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "Delay between a change and the regeneration")
}

func runWatch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so the directory is watched.
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	regenerate := func() {
		if err := runGenerate(ctx); err != nil {
			output.Error("%v", err)
		}
	}
	regenerate()
	output.Muted("Watching %s", configPath)

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			output.Warning("watch: %v", err)
		case <-timer.C:
			output.Info("%s changed", configPath)
			regenerate()
		}
	}
}
