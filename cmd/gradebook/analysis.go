package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gradebook-analyzer/gradebook/internal/dataset"
	"github.com/gradebook-analyzer/gradebook/internal/gradebook"
	"github.com/gradebook-analyzer/gradebook/internal/projectconfig"
	"github.com/gradebook-analyzer/gradebook/internal/reporting"
)

// ingestFlags are the row-parsing flags shared by analyze, compare and watch.
// Flags left unset fall back to the project config.
type ingestFlags struct {
	detectHeader bool
	onDuplicate  string
	unknownName  string
	sheet        string
}

func (f *ingestFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.detectHeader, "detect-header", projectconfig.DefaultDetectHeader, "Treat a first row whose score is not a number as a header")
	fs.StringVar(&f.onDuplicate, "on-duplicate", projectconfig.DefaultOnDuplicate, "Duplicate name policy: overwrite or warn-and-overwrite")
	fs.StringVar(&f.unknownName, "unknown-name", projectconfig.DefaultUnknownName, "Name used for rows with a blank name column")
	fs.StringVar(&f.sheet, "sheet", "", "Worksheet to read from .xlsx input (default: first sheet)")
}

func (f *ingestFlags) resolve(flags *pflag.FlagSet, cfg *projectconfig.ProjectConfig) (dataset.Options, gradebook.DuplicatePolicy, error) {
	opts := dataset.Options{
		DetectHeader: cfg.DetectHeader(),
		UnknownName:  cfg.UnknownName(),
		Sheet:        cfg.Ingest.Sheet,
	}
	policy := cfg.Ingest.OnDuplicate

	if flags.Changed("detect-header") {
		opts.DetectHeader = f.detectHeader
	}
	if flags.Changed("unknown-name") {
		opts.UnknownName = f.unknownName
	}
	if flags.Changed("sheet") {
		opts.Sheet = f.sheet
	}
	if flags.Changed("on-duplicate") {
		policy = f.onDuplicate
	}

	p, err := gradebook.ParseDuplicatePolicy(policy)
	if err != nil {
		return dataset.Options{}, "", err
	}
	return opts, p, nil
}

// reportFlags are the report flags shared by analyze, enter and watch.
type reportFlags struct {
	format      string
	output      string
	xlsx        string
	threshold   float64
	precision   int
	confidence  float64
	seed        int64
	showEntries bool
}

func (f *reportFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.format, "format", "f", projectconfig.DefaultReportFormat, "Output format: text, json, markdown, html or junit")
	fs.StringVarP(&f.output, "output", "o", "", "Write the report to this file instead of stdout")
	fs.StringVar(&f.xlsx, "xlsx", "", "Also export the report as an Excel workbook to this file")
	fs.Float64Var(&f.threshold, "threshold", projectconfig.DefaultPassThreshold, "Minimum passing score")
	fs.IntVar(&f.precision, "precision", projectconfig.DefaultReportPrecision, "Decimals shown for averages and medians")
	fs.Float64Var(&f.confidence, "confidence", 0, "Bootstrap confidence level for the mean, e.g. 0.95 (0 disables)")
	fs.Int64Var(&f.seed, "seed", -1, "Random seed for the bootstrap (negative: random)")
	fs.BoolVar(&f.showEntries, "show-entries", false, "List every loaded entry in input order, including duplicates")
}

// resolve returns the report options and output format, flags taking
// precedence over the project config.
func (f *reportFlags) resolve(flags *pflag.FlagSet, cfg *projectconfig.ProjectConfig) (reporting.Options, string, error) {
	opts := reporting.Options{
		PassThreshold:   cfg.PassThreshold(),
		Precision:       cfg.Precision(),
		ConfidenceLevel: cfg.Report.ConfidenceLevel,
		Seed:            f.seed,
		ShowEntries:     f.showEntries,
	}
	format := cfg.Report.Format

	if flags.Changed("format") {
		format = f.format
	}
	if flags.Changed("threshold") {
		opts.PassThreshold = f.threshold
	}
	if flags.Changed("precision") {
		opts.Precision = f.precision
	}
	if flags.Changed("confidence") {
		opts.ConfidenceLevel = f.confidence
	}

	if opts.PassThreshold < 0 {
		return reporting.Options{}, "", fmt.Errorf("threshold must be >= 0, got %v", opts.PassThreshold)
	}
	if opts.Precision < 0 {
		return reporting.Options{}, "", fmt.Errorf("precision must be >= 0, got %d", opts.Precision)
	}
	if opts.ConfidenceLevel < 0 || opts.ConfidenceLevel >= 1 {
		return reporting.Options{}, "", fmt.Errorf("confidence must be in [0, 1), got %v", opts.ConfidenceLevel)
	}
	return opts, format, nil
}

// loadGradebook reads path and builds its gradebook. Duplicate-name warnings
// are added to the load result so they reach the report. An empty source
// returns the empty gradebook with an error wrapping gradebook.ErrEmpty.
func loadGradebook(path string, opts dataset.Options, policy gradebook.DuplicatePolicy) (*gradebook.Gradebook, *dataset.LoadResult, error) {
	res, err := dataset.LoadFile(path, opts)
	if err != nil {
		return nil, nil, err
	}

	b := gradebook.NewBuilder(policy, func(msg string) {
		res.Warnings = append(res.Warnings, msg)
	})
	b.AddAll(res.Records)

	gb, err := b.Build()
	if err != nil {
		return gb, res, fmt.Errorf("%s: %w", path, err)
	}
	return gb, res, nil
}

// analyzeFile loads path and renders its report; shared by analyze and watch.
func analyzeFile(cmd *cobra.Command, a *app, path string, in *ingestFlags, rf *reportFlags) (*reporting.Report, error) {
	dsOpts, policy, err := in.resolve(cmd.Flags(), a.cfg)
	if err != nil {
		return nil, err
	}
	opts, format, err := rf.resolve(cmd.Flags(), a.cfg)
	if err != nil {
		return nil, err
	}

	gb, res, err := loadGradebook(path, dsOpts, policy)
	if err != nil && !errors.Is(err, gradebook.ErrEmpty) {
		return nil, err
	}

	opts.Source = path
	opts.Load = res
	return renderReport(cmd, gb, opts, format, rf)
}

// renderReport builds the report and writes it to stdout or --output, plus
// the optional --xlsx workbook.
func renderReport(cmd *cobra.Command, gb *gradebook.Gradebook, opts reporting.Options, format string, rf *reportFlags) (*reporting.Report, error) {
	r, err := reporting.Build(gb, opts)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	if rf.output == "" || rf.output == "-" {
		if err := reporting.Write(out, r, format); err != nil {
			return nil, err
		}
	} else {
		if err := writeFile(rf.output, func(w io.Writer) error { return reporting.Write(w, r, format) }); err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "Report written to %s\n", rf.output) //nolint:errcheck
	}

	if rf.xlsx != "" {
		if err := writeFile(rf.xlsx, func(w io.Writer) error { return reporting.WriteXLSX(w, r) }); err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "Workbook written to %s\n", rf.xlsx) //nolint:errcheck
	}
	return r, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
