package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gradebook-analyzer/gradebook/internal/dataset"
	"github.com/gradebook-analyzer/gradebook/internal/gradebook"
	"github.com/gradebook-analyzer/gradebook/internal/prompt"
	"github.com/gradebook-analyzer/gradebook/internal/reporting"
)

const menuHeader = "Gradebook Analyzer"

const menuOptions = `Options:
  1) Manual input
  2) CSV file
  q) Quit`

func newMenuCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive menu",
		Long: `Menu shows the interactive menu: type scores by hand or load a CSV
file, see the analysis, and return to the menu. Enter q, quit or exit to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMenu(cmd, a)
		},
	}
}

// runMenu loops over menu choices until the user quits or the input ends.
// Failures while analyzing one source are shown and the menu continues.
func runMenu(cmd *cobra.Command, a *app) error {
	out := cmd.OutOrStdout()
	p := prompt.New(cmd.InOrStdin(), out)

	policy, err := gradebook.ParseDuplicatePolicy(a.cfg.Ingest.OnDuplicate)
	if err != nil {
		return err
	}
	dsOpts := dataset.Options{
		DetectHeader: a.cfg.DetectHeader(),
		UnknownName:  a.cfg.UnknownName(),
		Sheet:        a.cfg.Ingest.Sheet,
	}

	p.Say(menuHeader)
	for {
		p.Say(menuOptions)
		raw, err := p.Ask("Choice: ")
		if err != nil {
			return endOfMenu(err)
		}

		switch choice := prompt.Choice(raw); choice {
		case "q", "quit", "exit":
			p.Say("Exiting.")
			return nil

		case "1":
			gb, res, err := collectManual(p, policy)
			if err != nil {
				return err
			}
			showAnalysis(out, a, gb, res, "")

		case "2":
			path, err := p.Ask("Enter path to CSV file: ")
			if err != nil {
				return endOfMenu(err)
			}
			path = strings.Trim(strings.TrimSpace(path), `"'`)
			if path == "" {
				p.Say("No file given.")
				continue
			}
			gb, res, err := loadGradebook(path, dsOpts, policy)
			if err != nil && !errors.Is(err, gradebook.ErrEmpty) {
				p.Say(fmt.Sprintf("Error: %v", err))
				continue
			}
			showAnalysis(out, a, gb, res, path)

		default:
			p.Say(fmt.Sprintf("Invalid option %q. Enter 1, 2 or q.", choice))
		}
	}
}

// collectManual runs a manual entry session. Duplicate-name warnings are
// returned in the load result so they appear with the analysis.
func collectManual(p prompt.Prompter, policy gradebook.DuplicatePolicy) (*gradebook.Gradebook, *dataset.LoadResult, error) {
	res := &dataset.LoadResult{}
	b := gradebook.NewBuilder(policy, func(msg string) {
		res.Warnings = append(res.Warnings, msg)
	})
	if err := prompt.Collect(p, b); err != nil {
		return nil, nil, err
	}
	gb, err := b.Build()
	if err != nil && !errors.Is(err, gradebook.ErrEmpty) {
		return nil, nil, err
	}
	res.Records = gb.Records()
	return gb, res, nil
}

func showAnalysis(out io.Writer, a *app, gb *gradebook.Gradebook, res *dataset.LoadResult, source string) {
	r, err := reporting.Build(gb, reporting.Options{
		Source:          source,
		PassThreshold:   a.cfg.PassThreshold(),
		Precision:       a.cfg.Precision(),
		ConfidenceLevel: a.cfg.Report.ConfidenceLevel,
		Seed:            -1,
		Load:            res,
	})
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err) //nolint:errcheck
		return
	}
	fmt.Fprintln(out) //nolint:errcheck
	if err := reporting.WriteText(out, r); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err) //nolint:errcheck
	}
}

func endOfMenu(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, prompt.ErrAborted) {
		return nil
	}
	return err
}
