package grading

import "github.com/gradebook-analyzer/gradebook/internal/gradebook"

// DefaultPassThreshold is the minimum passing score.
const DefaultPassThreshold = 40.0

// PassFail splits gb into students scoring at least threshold and the rest,
// both in gradebook insertion order.
func PassFail(gb *gradebook.Gradebook, threshold float64) (passed, failed []string) {
	return PassFailRecords(gb.Entries(), threshold)
}

// PassFailRecords is PassFail over a plain record list, kept in list order.
// Duplicate names appear once per record.
func PassFailRecords(recs []gradebook.ScoreRecord, threshold float64) (passed, failed []string) {
	passed = []string{}
	failed = []string{}
	for _, r := range recs {
		if r.Score >= threshold {
			passed = append(passed, r.Name)
		} else {
			failed = append(failed, r.Name)
		}
	}
	return passed, failed
}
