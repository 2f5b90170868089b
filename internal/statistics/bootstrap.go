package statistics

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ConfidenceInterval holds the result of a bootstrap confidence interval computation.
type ConfidenceInterval struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	Mean            float64 `json:"mean"`
	ConfidenceLevel float64 `json:"confidence_level"`
	NumBootstraps   int     `json:"num_bootstraps"`
}

// DefaultBootstrapIterations is the number of bootstrap resamples.
const DefaultBootstrapIterations = 10000

// BootstrapCI computes a bootstrap confidence interval for the mean of scores
// using the percentile method. confidenceLevel must be in (0, 1), e.g. 0.95.
// A single score yields a degenerate interval at that score.
func BootstrapCI(scores []float64, confidenceLevel float64) (ConfidenceInterval, error) {
	return BootstrapCIWithSeed(scores, confidenceLevel, -1)
}

// BootstrapCIWithSeed is like BootstrapCI but accepts a seed for reproducibility.
// A negative seed uses a non-deterministic source.
func BootstrapCIWithSeed(scores []float64, confidenceLevel float64, seed int64) (ConfidenceInterval, error) {
	n := len(scores)
	if n == 0 {
		return ConfidenceInterval{}, fmt.Errorf("confidence interval: %w", ErrEmptyInput)
	}
	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		return ConfidenceInterval{}, fmt.Errorf("confidence interval: level %v outside (0, 1)", confidenceLevel)
	}

	m := mean(scores)
	if n < 2 {
		return ConfidenceInterval{
			Lower:           m,
			Upper:           m,
			Mean:            m,
			ConfidenceLevel: confidenceLevel,
		}, nil
	}

	var rng *rand.Rand
	if seed >= 0 {
		rng = rand.New(rand.NewSource(seed))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	iters := DefaultBootstrapIterations

	// Resample with replacement and keep the mean of each resample.
	bootMeans := make([]float64, iters)
	sample := make([]float64, n)
	for i := 0; i < iters; i++ {
		for j := 0; j < n; j++ {
			sample[j] = scores[rng.Intn(n)]
		}
		bootMeans[i] = mean(sample)
	}

	sort.Float64s(bootMeans)

	alpha := 1.0 - confidenceLevel
	loIdx := int(math.Floor(alpha / 2.0 * float64(iters)))
	hiIdx := int(math.Floor((1.0 - alpha/2.0) * float64(iters)))
	if hiIdx >= iters {
		hiIdx = iters - 1
	}

	return ConfidenceInterval{
		Lower:           bootMeans[loIdx],
		Upper:           bootMeans[hiIdx],
		Mean:            m,
		ConfidenceLevel: confidenceLevel,
		NumBootstraps:   iters,
	}, nil
}

// IsSignificant returns true if the confidence interval does not contain zero.
// Used on score deltas to tell whether a class moved between two assessments.
func IsSignificant(ci ConfidenceInterval) bool {
	return ci.Lower > 0 || ci.Upper < 0
}

// NormalizedGain computes Hake's normalized gain for scores out of maxScore:
//
//	g = (post - pre) / (maxScore - pre)
//
// Returns 0 if pre is already at the ceiling or nothing changed, and 1 if
// post reached the ceiling.
func NormalizedGain(pre, post, maxScore float64) float64 {
	if pre >= maxScore {
		return 0.0
	}
	if post >= maxScore {
		return 1.0
	}
	if math.Abs(post-pre) < 1e-12 {
		return 0.0
	}
	return (post - pre) / (maxScore - pre)
}
