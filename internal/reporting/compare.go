package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/gradebook-analyzer/gradebook/internal/gradebook"
	"github.com/gradebook-analyzer/gradebook/internal/statistics"
)

// DefaultMaxScore is the ceiling used for normalized gain.
const DefaultMaxScore = 100.0

// CompareOptions controls a Comparison.
type CompareOptions struct {
	ConfidenceLevel float64
	Seed            int64
	MaxScore        float64
	Precision       int
}

// StudentDelta holds one student's scores across the compared files. A nil
// score means the student is absent from that file.
type StudentDelta struct {
	Name   string     `json:"name"`
	Scores []*float64 `json:"scores"`
	// Delta and Gain compare the last file with the first and are nil unless
	// the student appears in both.
	Delta *float64 `json:"delta,omitempty"`
	Gain  *float64 `json:"normalized_gain,omitempty"`
}

// Comparison is the result of comparing two or more gradebooks.
type Comparison struct {
	Files        []string                       `json:"files"`
	Counts       []int                          `json:"counts"`
	Averages     []float64                      `json:"averages"`
	AverageDelta float64                        `json:"average_delta"`
	Students     []StudentDelta                 `json:"students"`
	DeltaCI      *statistics.ConfidenceInterval `json:"delta_ci,omitempty"`
	Significant  bool                           `json:"significant"`

	Precision int `json:"-"`
}

// Compare builds a Comparison of books, which must be non-empty and parallel
// to files. Students are listed in first-seen order across the files.
func Compare(files []string, books []*gradebook.Gradebook, opts CompareOptions) (*Comparison, error) {
	if len(books) < 2 {
		return nil, fmt.Errorf("compare needs at least two gradebooks, got %d", len(books))
	}
	if len(files) != len(books) {
		return nil, fmt.Errorf("compare: %d files for %d gradebooks", len(files), len(books))
	}
	if opts.MaxScore <= 0 {
		opts.MaxScore = DefaultMaxScore
	}

	c := &Comparison{Files: files, Precision: opts.Precision}
	for i, gb := range books {
		avg, err := statistics.Average(gb.Scores())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", files[i], err)
		}
		c.Counts = append(c.Counts, gb.Len())
		c.Averages = append(c.Averages, avg)
	}
	n := len(books)
	c.AverageDelta = c.Averages[n-1] - c.Averages[0]

	seen := make(map[string]bool)
	var names []string
	for _, gb := range books {
		for _, name := range gb.Names() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	var deltas []float64
	for _, name := range names {
		sd := StudentDelta{Name: name}
		for _, gb := range books {
			if v, ok := gb.Score(name); ok {
				sd.Scores = append(sd.Scores, &v)
			} else {
				sd.Scores = append(sd.Scores, nil)
			}
		}
		first, last := sd.Scores[0], sd.Scores[n-1]
		if first != nil && last != nil {
			d := *last - *first
			g := statistics.NormalizedGain(*first, *last, opts.MaxScore)
			sd.Delta, sd.Gain = &d, &g
			deltas = append(deltas, d)
		}
		c.Students = append(c.Students, sd)
	}

	if opts.ConfidenceLevel > 0 && len(deltas) > 0 {
		ci, err := statistics.BootstrapCIWithSeed(deltas, opts.ConfidenceLevel, opts.Seed)
		if err != nil {
			return nil, fmt.Errorf("delta confidence interval: %w", err)
		}
		c.DeltaCI = &ci
		c.Significant = statistics.IsSignificant(ci)
	}
	return c, nil
}

// WriteComparisonJSON writes c as indented JSON.
func WriteComparisonJSON(w io.Writer, c *Comparison) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling comparison: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteComparisonText writes c as an aligned table.
func WriteComparisonText(w io.Writer, c *Comparison) error {
	var b strings.Builder
	fixed := func(v float64) string { return fmt.Sprintf("%.*f", c.Precision, v) }

	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString(" COMPARISON REPORT\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	for i, f := range c.Files {
		b.WriteString(fmt.Sprintf("  [%d] %s  (%d students, average %s)\n", i+1, f, c.Counts[i], fixed(c.Averages[i])))
	}
	b.WriteString(fmt.Sprintf("\nAverage delta: %+.*f\n", c.Precision, c.AverageDelta))
	if c.DeltaCI != nil {
		verdict := "not significant"
		if c.Significant {
			verdict = "significant"
		}
		b.WriteString(fmt.Sprintf("%.0f%% CI for mean delta: [%s, %s] (%s)\n",
			c.DeltaCI.ConfidenceLevel*100, fixed(c.DeltaCI.Lower), fixed(c.DeltaCI.Upper), verdict))
	}

	nameWidth := len("Student")
	for _, sd := range c.Students {
		if l := runewidth.StringWidth(sd.Name); l > nameWidth {
			nameWidth = l
		}
	}

	b.WriteString("\n  " + padRight("Student", nameWidth))
	for i := range c.Files {
		b.WriteString("  " + padRight(fmt.Sprintf("[%d]", i+1), 7))
	}
	b.WriteString("  Delta    Gain\n")

	for _, sd := range c.Students {
		b.WriteString("  " + padRight(sd.Name, nameWidth))
		for _, s := range sd.Scores {
			cell := "n/a"
			if s != nil {
				cell = gradebook.FormatScore(*s)
			}
			b.WriteString("  " + padRight(cell, 7))
		}
		if sd.Delta != nil {
			b.WriteString(fmt.Sprintf("  %s  %s", padRight(fmt.Sprintf("%+.*f", c.Precision, *sd.Delta), 7), fixed(*sd.Gain)))
		} else {
			b.WriteString("  " + padRight("n/a", 7) + "  n/a")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
