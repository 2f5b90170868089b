package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gradebook-analyzer/gradebook/internal/watch"
)

func newWatchCommand(a *app) *cobra.Command {
	var (
		in ingestFlags
		rf reportFlags
	)

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-analyze a score file every time it changes",
		Long: `Watch analyzes the file once, then again each time it is saved, until
interrupted with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			path := args[0]
			run := func() error {
				_, err := analyzeFile(cmd, a, path, &in, &rf)
				return err
			}
			if err := run(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)\n", path) //nolint:errcheck

			return watch.File(ctx, path, run)
		},
	}

	in.register(cmd.Flags())
	rf.register(cmd.Flags())

	return cmd
}
