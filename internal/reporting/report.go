// Package reporting turns a gradebook into an analysis report and renders it
// as text, JSON, Markdown, HTML, JUnit XML or an Excel workbook.
package reporting

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gradebook-analyzer/gradebook/internal/dataset"
	"github.com/gradebook-analyzer/gradebook/internal/gradebook"
	"github.com/gradebook-analyzer/gradebook/internal/grading"
	"github.com/gradebook-analyzer/gradebook/internal/statistics"
)

// EmptyMessage is shown instead of the analysis when no score was loaded.
const EmptyMessage = "Cannot compute analysis: no scores loaded"

// Output formats understood by Write.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatJUnit    = "junit"
)

// Formats lists every format accepted by Write.
var Formats = []string{FormatText, FormatJSON, FormatMarkdown, FormatHTML, FormatJUnit}

// Options controls what goes into a Report.
type Options struct {
	Source        string
	PassThreshold float64
	// Precision is the number of decimals for averages and medians.
	Precision int
	// ConfidenceLevel enables a bootstrap interval for the mean when > 0.
	ConfidenceLevel float64
	// Seed makes the bootstrap reproducible; negative means random.
	Seed        int64
	ShowEntries bool
	Load        *dataset.LoadResult
}

// StudentGrade is one row of the per-student table.
type StudentGrade struct {
	Name   string         `json:"name"`
	Score  float64        `json:"score"`
	Grade  grading.Letter `json:"grade"`
	Passed bool           `json:"passed"`
}

// Report is the complete analysis of one gradebook.
type Report struct {
	Source        string                         `json:"source,omitempty"`
	GeneratedAt   time.Time                      `json:"generated_at"`
	Summary       *statistics.Summary            `json:"summary"`
	MeanCI        *statistics.ConfidenceInterval `json:"mean_ci,omitempty"`
	Students      []StudentGrade                 `json:"students"`
	Distribution  grading.Distribution           `json:"distribution"`
	PassThreshold float64                        `json:"pass_threshold"`
	Passed        []string                       `json:"passed"`
	Failed        []string                       `json:"failed"`
	Entries       []gradebook.ScoreRecord        `json:"entries,omitempty"`
	Skipped       []dataset.SkippedRow           `json:"skipped,omitempty"`
	Warnings      []string                       `json:"warnings,omitempty"`

	// ByName is the name-sorted view of the gradebook shown with the entries.
	ByName      []gradebook.ScoreRecord `json:"-"`
	Precision   int                     `json:"-"`
	ShowEntries bool                    `json:"-"`
}

// Empty reports whether the report has no statistics.
func (r *Report) Empty() bool {
	return r.Summary == nil
}

// Build analyses gb. An empty gradebook is not an error: the report comes
// back with a nil Summary and renders EmptyMessage.
func Build(gb *gradebook.Gradebook, opts Options) (*Report, error) {
	r := &Report{
		Source:        opts.Source,
		GeneratedAt:   time.Now().UTC(),
		PassThreshold: opts.PassThreshold,
		Precision:     opts.Precision,
		ShowEntries:   opts.ShowEntries,
		Distribution:  grading.NewDistribution(),
		Students:      []StudentGrade{},
		Passed:        []string{},
		Failed:        []string{},
		Entries:       gb.Records(),
	}
	for _, name := range gb.SortedNames() {
		score, _ := gb.Score(name)
		r.ByName = append(r.ByName, gradebook.ScoreRecord{Name: name, Score: score})
	}
	if opts.Load != nil {
		r.Skipped = opts.Load.Skipped
		r.Warnings = append(r.Warnings, opts.Load.Warnings...)
	}

	summary, err := statistics.Summarize(gb)
	if errors.Is(err, statistics.ErrEmptyInput) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("summarizing scores: %w", err)
	}
	r.Summary = summary

	grades, dist := grading.Assign(gb)
	r.Distribution = dist
	for _, e := range gb.Entries() {
		r.Students = append(r.Students, StudentGrade{
			Name:   e.Name,
			Score:  e.Score,
			Grade:  grades[e.Name],
			Passed: e.Score >= opts.PassThreshold,
		})
	}
	r.Passed, r.Failed = grading.PassFail(gb, opts.PassThreshold)

	if opts.ConfidenceLevel > 0 {
		ci, err := statistics.BootstrapCIWithSeed(gb.Scores(), opts.ConfidenceLevel, opts.Seed)
		if err != nil {
			return nil, fmt.Errorf("mean confidence interval: %w", err)
		}
		r.MeanCI = &ci
	}
	return r, nil
}

// Write renders r in format to w.
func Write(w io.Writer, r *Report, format string) error {
	switch format {
	case "", FormatText:
		return WriteText(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatMarkdown:
		return WriteMarkdown(w, r)
	case FormatHTML:
		return WriteHTML(w, r)
	case FormatJUnit:
		return WriteJUnit(w, r)
	default:
		return fmt.Errorf("unsupported format %q: must be one of %v", format, Formats)
	}
}

// fixed formats v with the report precision.
func (r *Report) fixed(v float64) string {
	return fmt.Sprintf("%.*f", r.Precision, v)
}
