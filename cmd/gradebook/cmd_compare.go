package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gradebook-analyzer/gradebook/internal/gradebook"
	"github.com/gradebook-analyzer/gradebook/internal/reporting"
)

func newCompareCommand(a *app) *cobra.Command {
	var (
		in         ingestFlags
		format     string
		confidence float64
		seed       int64
		maxScore   float64
	)

	cmd := &cobra.Command{
		Use:   "compare <scores1> <scores2> [scores3 ...]",
		Short: "Compare scores across two or more files",
		Long: `Compare loads two or more score files, e.g. a midterm and a final, and
shows each student's score per file, the change between the first and last
file, Hake's normalized gain and the change in the class average.

With --confidence the mean per-student change gets a bootstrap confidence
interval and is flagged significant when the interval excludes zero.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unsupported format %q: must be text or json", format)
			}
			dsOpts, policy, err := in.resolve(cmd.Flags(), a.cfg)
			if err != nil {
				return err
			}
			level := a.cfg.Report.ConfidenceLevel
			if cmd.Flags().Changed("confidence") {
				level = confidence
			}

			books := make([]*gradebook.Gradebook, len(args))
			warnings := make([][]string, len(args))
			var g errgroup.Group
			for i, path := range args {
				g.Go(func() error {
					gb, res, err := loadGradebook(path, dsOpts, policy)
					if err != nil {
						return fmt.Errorf("failed to load %w", err)
					}
					books[i], warnings[i] = gb, res.Warnings
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			for i, ws := range warnings {
				for _, w := range ws {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", args[i], w) //nolint:errcheck
				}
			}

			c, err := reporting.Compare(args, books, reporting.CompareOptions{
				ConfidenceLevel: level,
				Seed:            seed,
				MaxScore:        maxScore,
				Precision:       a.cfg.Precision(),
			})
			if err != nil {
				return err
			}

			if format == "json" {
				return reporting.WriteComparisonJSON(cmd.OutOrStdout(), c)
			}
			return reporting.WriteComparisonText(cmd.OutOrStdout(), c)
		},
	}

	in.register(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().Float64Var(&confidence, "confidence", 0, "Bootstrap confidence level for the mean change, e.g. 0.95 (0 disables)")
	cmd.Flags().Int64Var(&seed, "seed", -1, "Random seed for the bootstrap (negative: random)")
	cmd.Flags().Float64Var(&maxScore, "max-score", reporting.DefaultMaxScore, "Score ceiling used for normalized gain")

	return cmd
}
