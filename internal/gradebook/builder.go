package gradebook

import (
	"fmt"
	"log/slog"
	"sort"
)

// Builder accumulates ScoreRecords into a Gradebook.
type Builder struct {
	gb     *Gradebook
	policy DuplicatePolicy
	warn   func(string)
}

// NewBuilder returns a Builder. warn receives duplicate-name warnings under
// DuplicateWarnAndOverwrite and may be nil.
func NewBuilder(policy DuplicatePolicy, warn func(msg string)) *Builder {
	if policy == "" {
		policy = DuplicateWarnAndOverwrite
	}
	return &Builder{gb: newGradebook(), policy: policy, warn: warn}
}

// Add records rec. It reports whether an existing score was overwritten.
func (b *Builder) Add(rec ScoreRecord) bool {
	prev, exists := b.gb.scores[rec.Name]
	if exists {
		if b.policy == DuplicateWarnAndOverwrite {
			msg := fmt.Sprintf("duplicate name %q: overwriting previous score %s with %s",
				rec.Name, FormatScore(prev), FormatScore(rec.Score))
			slog.Debug("Duplicate student name", "name", rec.Name, "previous", prev, "score", rec.Score, "line", rec.Line)
			if b.warn != nil {
				b.warn(msg)
			}
		}
	} else {
		b.gb.order = append(b.gb.order, rec.Name)
	}
	b.gb.scores[rec.Name] = rec.Score
	b.gb.records = append(b.gb.records, rec)
	return exists
}

// AddAll adds each record in order.
func (b *Builder) AddAll(recs []ScoreRecord) {
	for _, r := range recs {
		b.Add(r)
	}
}

// Len returns the number of unique names added so far.
func (b *Builder) Len() int {
	return b.gb.Len()
}

// Build returns the accumulated Gradebook. When nothing was added the empty
// Gradebook is returned together with an error wrapping ErrEmpty.
func (b *Builder) Build() (*Gradebook, error) {
	if b.gb.Len() == 0 {
		return b.gb, fmt.Errorf("building gradebook: %w", ErrEmpty)
	}
	return b.gb, nil
}

// FromRecords builds a Gradebook from recs, silently overwriting duplicates.
func FromRecords(recs []ScoreRecord) *Gradebook {
	b := NewBuilder(DuplicateOverwrite, nil)
	b.AddAll(recs)
	return b.gb
}

// FromMap builds a Gradebook from m with names inserted in lexical order.
func FromMap(m map[string]float64) *Gradebook {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)

	b := NewBuilder(DuplicateOverwrite, nil)
	for _, n := range names {
		b.Add(ScoreRecord{Name: n, Score: m[n]})
	}
	return b.gb
}
