package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ludo-technologies/smellscan/app"
	"github.com/ludo-technologies/smellscan/service"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	analysisFlags

	debounce time.Duration
}

func watchCmd() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [path...]",
		Short: "Re-analyze files whenever they change",
		Long: `Analyze the given files and directories, then keep watching them and print
one line per changed document with its score, findings and lint count.
Saving a file without changing its content prints nothing.

Stop with Ctrl+C.

Examples:
  smellscan watch src/
  smellscan watch --debounce 500ms --disable large_file src/ lib/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts, args)
		},
	}

	cmd.Flags().DurationVar(&opts.debounce, "debounce", app.DefaultWatchDebounce,
		"Quiet period before a changed file is re-analyzed")
	opts.register(cmd)

	return cmd
}

func runWatch(cmd *cobra.Command, opts *watchOptions, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	cfg, err := loadConfig(&opts.analysisFlags, args, nil)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(cmd.ErrOrStderr(), "Watching for changes, press Ctrl+C to stop")
	uc := app.NewWatchUseCase(newBatchRunner(cfg, &service.NoOpProgressManager{}))
	return uc.Run(ctx, app.WatchConfig{
		Collect:  collectOptions(cfg),
		Output:   cmd.OutOrStdout(),
		Debounce: opts.debounce,
	}, args)
}

