// Package statistics computes descriptive statistics over gradebook scores.
// Every operation rejects empty input with ErrEmptyInput instead of returning
// an undefined number.
package statistics

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/gradebook-analyzer/gradebook/internal/gradebook"
)

// ErrEmptyInput is returned when a statistic is requested over no scores.
var ErrEmptyInput = errors.New("no scores to analyze")

// Average returns the arithmetic mean of scores.
func Average(scores []float64) (float64, error) {
	if len(scores) == 0 {
		return 0, fmt.Errorf("average: %w", ErrEmptyInput)
	}
	return mean(scores), nil
}

// Median returns the middle of the sorted scores, or the mean of the two
// central values when the count is even.
func Median(scores []float64) (float64, error) {
	n := len(scores)
	if n == 0 {
		return 0, fmt.Errorf("median: %w", ErrEmptyInput)
	}
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid], nil
	}
	return (sorted[mid-1] + sorted[mid]) / 2, nil
}

// Extreme is a maximum or minimum score and every student who has it.
type Extreme struct {
	Score float64  `json:"score"`
	Names []string `json:"names"`
}

// Max returns the highest score in gb and all names achieving it, in
// gradebook order.
func Max(gb *gradebook.Gradebook) (Extreme, error) {
	return extreme(gb, func(a, b float64) bool { return a > b }, "max")
}

// Min returns the lowest score in gb and all names achieving it, in
// gradebook order.
func Min(gb *gradebook.Gradebook) (Extreme, error) {
	return extreme(gb, func(a, b float64) bool { return a < b }, "min")
}

func extreme(gb *gradebook.Gradebook, better func(a, b float64) bool, op string) (Extreme, error) {
	entries := gb.Entries()
	if len(entries) == 0 {
		return Extreme{}, fmt.Errorf("%s: %w", op, ErrEmptyInput)
	}
	best := entries[0].Score
	for _, e := range entries[1:] {
		if better(e.Score, best) {
			best = e.Score
		}
	}
	ext := Extreme{Score: best}
	for _, e := range entries {
		if e.Score == best {
			ext.Names = append(ext.Names, e.Name)
		}
	}
	return ext, nil
}

// Spread describes how scores are distributed around the centre.
type Spread struct {
	// StdDev is the sample standard deviation; 0 for a single score.
	StdDev float64 `json:"std_dev"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// ComputeSpread returns the standard deviation and quartiles of scores.
func ComputeSpread(scores []float64) (Spread, error) {
	if len(scores) == 0 {
		return Spread{}, fmt.Errorf("spread: %w", ErrEmptyInput)
	}
	s := stats.Sample{Xs: append([]float64(nil), scores...)}
	s.Sort()

	sp := Spread{Q1: s.Quantile(0.25), Q3: s.Quantile(0.75)}
	if len(scores) > 1 {
		sp.StdDev = s.StdDev()
	}
	return sp, nil
}

// Summary bundles the statistics reported for one gradebook.
type Summary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
	Max     Extreme `json:"max"`
	Min     Extreme `json:"min"`
	Spread  Spread  `json:"spread"`
}

// Summarize computes every statistic for gb.
func Summarize(gb *gradebook.Gradebook) (*Summary, error) {
	scores := gb.Scores()
	avg, err := Average(scores)
	if err != nil {
		return nil, err
	}
	med, err := Median(scores)
	if err != nil {
		return nil, err
	}
	hi, err := Max(gb)
	if err != nil {
		return nil, err
	}
	lo, err := Min(gb)
	if err != nil {
		return nil, err
	}
	sp, err := ComputeSpread(scores)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Count:   len(scores),
		Average: avg,
		Median:  med,
		Max:     hi,
		Min:     lo,
		Spread:  sp,
	}, nil
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
