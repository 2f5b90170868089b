package main

import (
	"github.com/spf13/cobra"
)

func newAnalyzeCommand(a *app) *cobra.Command {
	var (
		in         ingestFlags
		rf         reportFlags
		failOnFail bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze scores from a CSV or Excel file",
		Long: `Analyze reads a two-column file (name, score) and prints summary
statistics, letter grades and pass/fail lists.

Supported inputs: .csv, .csv.gz, .csv.zst and .xlsx. Rows with fewer than two
columns or a score that is not a number are skipped with a warning. A missing
file is reported and analyzed as empty.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := analyzeFile(cmd, a, args[0], &in, &rf)
			if err != nil {
				return err
			}
			if failOnFail && len(r.Failed) > 0 {
				return &FailedStudentsError{Failed: r.Failed}
			}
			return nil
		},
	}

	in.register(cmd.Flags())
	rf.register(cmd.Flags())
	cmd.Flags().BoolVar(&failOnFail, "fail-on-fail", false, "Exit with code 1 when any student is below the pass threshold")

	return cmd
}
