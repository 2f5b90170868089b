// Package gradebook holds the in-memory name→score collection built from one
// input source, along with the ordered record of every score that was added.
package gradebook

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrEmpty is returned by Build when no valid record was ever added.
var ErrEmpty = errors.New("gradebook is empty")

// ScoreRecord is a single parsed (name, score) pair.
type ScoreRecord struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	// Line is the 1-based source line, or 0 for manual entries.
	Line int `json:"line,omitempty"`
}

// DuplicatePolicy controls what the Builder does when a name repeats.
type DuplicatePolicy string

const (
	DuplicateOverwrite        DuplicatePolicy = "overwrite"
	DuplicateWarnAndOverwrite DuplicatePolicy = "warn-and-overwrite"
)

// ParseDuplicatePolicy validates s as a DuplicatePolicy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(s); p {
	case DuplicateOverwrite, DuplicateWarnAndOverwrite:
		return p, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q: must be %s or %s", s, DuplicateOverwrite, DuplicateWarnAndOverwrite)
	}
}

// Gradebook maps unique student names to their last-seen score.
type Gradebook struct {
	scores  map[string]float64
	order   []string
	records []ScoreRecord
}

func newGradebook() *Gradebook {
	return &Gradebook{scores: make(map[string]float64)}
}

// Len returns the number of unique students.
func (g *Gradebook) Len() int {
	if g == nil {
		return 0
	}
	return len(g.order)
}

// Score returns the current score for name.
func (g *Gradebook) Score(name string) (float64, bool) {
	if g == nil {
		return 0, false
	}
	v, ok := g.scores[name]
	return v, ok
}

// Names returns the unique names in first-insertion order.
func (g *Gradebook) Names() []string {
	if g == nil {
		return nil
	}
	return append([]string(nil), g.order...)
}

// SortedNames returns the unique names in lexical order.
func (g *Gradebook) SortedNames() []string {
	names := g.Names()
	sort.Strings(names)
	return names
}

// Scores returns the current scores in the same order as Names.
func (g *Gradebook) Scores() []float64 {
	if g == nil {
		return nil
	}
	out := make([]float64, len(g.order))
	for i, n := range g.order {
		out[i] = g.scores[n]
	}
	return out
}

// Entries returns one record per unique name holding its current score,
// in first-insertion order.
func (g *Gradebook) Entries() []ScoreRecord {
	if g == nil {
		return nil
	}
	out := make([]ScoreRecord, len(g.order))
	for i, n := range g.order {
		out[i] = ScoreRecord{Name: n, Score: g.scores[n]}
	}
	return out
}

// Records returns every record that was added, including superseded
// duplicates, in arrival order.
func (g *Gradebook) Records() []ScoreRecord {
	if g == nil {
		return nil
	}
	return append([]ScoreRecord(nil), g.records...)
}

// FormatScore renders integral scores without a fractional part and
// fractional scores with the minimum digits needed.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
