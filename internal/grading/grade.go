// Package grading maps scores to letter grades and splits students into
// passed and failed lists.
package grading

import (
	"github.com/gradebook-analyzer/gradebook/internal/gradebook"
)

// Letter is a grade on the fixed A–F scale.
type Letter string

const (
	A Letter = "A"
	B Letter = "B"
	C Letter = "C"
	D Letter = "D"
	F Letter = "F"
)

// Letters lists every grade from highest to lowest.
var Letters = []Letter{A, B, C, D, F}

// Inclusive lower bounds, evaluated high to low.
const (
	ThresholdA = 90.0
	ThresholdB = 80.0
	ThresholdC = 70.0
	ThresholdD = 60.0
)

// Classify returns the letter grade for score.
func Classify(score float64) Letter {
	switch {
	case score >= ThresholdA:
		return A
	case score >= ThresholdB:
		return B
	case score >= ThresholdC:
		return C
	case score >= ThresholdD:
		return D
	default:
		return F
	}
}

// Distribution counts students per letter. Every letter is always present.
type Distribution map[Letter]int

// NewDistribution returns a Distribution with all letters at zero.
func NewDistribution() Distribution {
	d := make(Distribution, len(Letters))
	for _, l := range Letters {
		d[l] = 0
	}
	return d
}

// Total returns the number of students counted.
func (d Distribution) Total() int {
	n := 0
	for _, c := range d {
		n += c
	}
	return n
}

// Assign grades every student in gb and tallies the distribution.
func Assign(gb *gradebook.Gradebook) (map[string]Letter, Distribution) {
	grades := make(map[string]Letter, gb.Len())
	dist := NewDistribution()
	for _, e := range gb.Entries() {
		l := Classify(e.Score)
		grades[e.Name] = l
		dist[l]++
	}
	return grades, dist
}
