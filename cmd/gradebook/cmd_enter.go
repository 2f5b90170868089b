package main

import (
	"github.com/spf13/cobra"

	"github.com/gradebook-analyzer/gradebook/internal/gradebook"
	"github.com/gradebook-analyzer/gradebook/internal/projectconfig"
	"github.com/gradebook-analyzer/gradebook/internal/prompt"
)

func newEnterCommand(a *app) *cobra.Command {
	var (
		rf          reportFlags
		onDuplicate string
	)

	cmd := &cobra.Command{
		Use:   "enter",
		Short: "Type in names and scores, then analyze them",
		Long: `Enter prompts for student names and scores one at a time. Leave the
name blank (or end the input) to finish; the collected scores are then
analyzed. A score that is not a number is asked for again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy := a.cfg.Ingest.OnDuplicate
			if cmd.Flags().Changed("on-duplicate") {
				policy = onDuplicate
			}
			p, err := gradebook.ParseDuplicatePolicy(policy)
			if err != nil {
				return err
			}
			opts, format, err := rf.resolve(cmd.Flags(), a.cfg)
			if err != nil {
				return err
			}

			gb, res, err := collectManual(prompt.New(cmd.InOrStdin(), cmd.OutOrStdout()), p)
			if err != nil {
				return err
			}
			opts.Load = res
			_, err = renderReport(cmd, gb, opts, format, &rf)
			return err
		},
	}

	rf.register(cmd.Flags())
	cmd.Flags().StringVar(&onDuplicate, "on-duplicate", projectconfig.DefaultOnDuplicate, "Duplicate name policy: overwrite or warn-and-overwrite")

	return cmd
}
