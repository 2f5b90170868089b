package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/gradebook-analyzer/gradebook/internal/gradebook"
	"github.com/gradebook-analyzer/gradebook/internal/grading"
)

const ruleWidth = 40

// WriteText writes the human-readable analysis.
func WriteText(w io.Writer, r *Report) error {
	_, err := io.WriteString(w, RenderText(r))
	return err
}

// RenderText renders the human-readable analysis.
func RenderText(r *Report) string {
	var b strings.Builder

	if len(r.Warnings) > 0 {
		b.WriteString("Warnings:\n")
		for _, msg := range r.Warnings {
			b.WriteString(fmt.Sprintf("  - %s\n", msg))
		}
		b.WriteString("\n")
	}

	if r.Empty() {
		b.WriteString(EmptyMessage + "\n")
		return b.String()
	}

	s := r.Summary
	b.WriteString("=== Analysis Summary ===\n")
	if r.Source != "" {
		b.WriteString(fmt.Sprintf("Source: %s\n", r.Source))
	}
	b.WriteString(fmt.Sprintf("Loaded %d students.\n", s.Count))
	b.WriteString(fmt.Sprintf("Average score: %s\n", r.fixed(s.Average)))
	b.WriteString(fmt.Sprintf("Median score: %s\n", r.fixed(s.Median)))
	b.WriteString(fmt.Sprintf("Max score: %s - %s\n", gradebook.FormatScore(s.Max.Score), strings.Join(s.Max.Names, ", ")))
	b.WriteString(fmt.Sprintf("Min score: %s - %s\n", gradebook.FormatScore(s.Min.Score), strings.Join(s.Min.Names, ", ")))
	b.WriteString(fmt.Sprintf("Std dev: %s (Q1 %s, Q3 %s)\n",
		r.fixed(s.Spread.StdDev), r.fixed(s.Spread.Q1), r.fixed(s.Spread.Q3)))
	if r.MeanCI != nil {
		b.WriteString(fmt.Sprintf("%.0f%% CI for mean: [%s, %s]\n",
			r.MeanCI.ConfidenceLevel*100, r.fixed(r.MeanCI.Lower), r.fixed(r.MeanCI.Upper)))
	}

	b.WriteString("\nGrades:\n")
	nameWidth := runewidth.StringWidth("Name")
	for _, st := range r.Students {
		if sw := runewidth.StringWidth(st.Name); sw > nameWidth {
			nameWidth = sw
		}
	}
	b.WriteString(fmt.Sprintf("  %s  %s  Grade  Result\n", padRight("Name", nameWidth), padRight("Score", 7)))
	b.WriteString("  " + strings.Repeat("-", nameWidth+24) + "\n")
	for _, st := range r.Students {
		result := "pass"
		if !st.Passed {
			result = "FAIL"
		}
		b.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
			padRight(st.Name, nameWidth), padRight(gradebook.FormatScore(st.Score), 7), padRight(string(st.Grade), 5), result))
	}

	b.WriteString("\nGrade distribution:\n")
	for _, l := range grading.Letters {
		b.WriteString(fmt.Sprintf("  %s: %d\n", l, r.Distribution[l]))
	}

	threshold := gradebook.FormatScore(r.PassThreshold)
	b.WriteString(fmt.Sprintf("\nPassed (>=%s): %d\n", threshold, len(r.Passed)))
	if len(r.Passed) > 0 {
		b.WriteString("  " + strings.Join(r.Passed, ", ") + "\n")
	}
	b.WriteString(fmt.Sprintf("Failed (<%s): %d\n", threshold, len(r.Failed)))
	if len(r.Failed) > 0 {
		b.WriteString("  " + strings.Join(r.Failed, ", ") + "\n")
	}

	if r.ShowEntries {
		b.WriteString("\nScores by name:\n")
		for _, e := range r.ByName {
			b.WriteString(fmt.Sprintf("  %s: %s\n", e.Name, gradebook.FormatScore(e.Score)))
		}
		b.WriteString("\nEntries (in order):\n")
		for i, e := range r.Entries {
			b.WriteString(fmt.Sprintf("  %d. %s: %s", i+1, e.Name, gradebook.FormatScore(e.Score)))
			if e.Line > 0 {
				b.WriteString(fmt.Sprintf(" (line %d)", e.Line))
			}
			b.WriteString("\n")
		}
	}
	b.WriteString(strings.Repeat("=", ruleWidth) + "\n")

	return b.String()
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
