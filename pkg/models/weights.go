package models

import (
	"errors"
	"fmt"
	"math"
)

// WeightSumTolerance is the allowed deviation of the weight sum from 1.0.
const WeightSumTolerance = 0.001

// ErrInvalidWeights indicates a weight vector that cannot be used for ranking.
var ErrInvalidWeights = errors.New("invalid ranking weights")

// Weights defines the contribution of each contributor signal to the
// composite score. All ten values must be non-negative and sum to 1.0
// within WeightSumTolerance.
type Weights struct {
	Commits        float64 `json:"commits" koanf:"commits"`
	Churn          float64 `json:"churn" koanf:"churn"`
	HotspotWork    float64 `json:"hotspot_work" koanf:"hotspot_work"`
	Ownership      float64 `json:"ownership" koanf:"ownership"`
	Complexity     float64 `json:"complexity" koanf:"complexity"`
	Communication  float64 `json:"communication" koanf:"communication"`
	Recency        float64 `json:"recency" koanf:"recency"`
	Fragmentation  float64 `json:"fragmentation" koanf:"fragmentation"`
	Coupling       float64 `json:"coupling" koanf:"coupling"`
	HotspotCommits float64 `json:"hotspot_commits" koanf:"hotspot_commits"`
}

// DefaultWeights returns the standard weight vector.
func DefaultWeights() Weights {
	return Weights{
		Commits:        0.15,
		Churn:          0.12,
		HotspotWork:    0.20,
		Ownership:      0.15,
		Complexity:     0.08,
		Communication:  0.10,
		Recency:        0.08,
		Fragmentation:  0.05,
		Coupling:       0.05,
		HotspotCommits: 0.02,
	}
}

// Sum returns the total of all ten weights.
func (w Weights) Sum() float64 {
	return w.Commits + w.Churn + w.HotspotWork + w.Ownership + w.Complexity +
		w.Communication + w.Recency + w.Fragmentation + w.Coupling + w.HotspotCommits
}

// Validate checks the weight vector before any scoring work starts. Weights
// are checked in declaration order so the reported name is stable when more
// than one is invalid.
func (w Weights) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"commits", w.Commits},
		{"churn", w.Churn},
		{"hotspot_work", w.HotspotWork},
		{"ownership", w.Ownership},
		{"complexity", w.Complexity},
		{"communication", w.Communication},
		{"recency", w.Recency},
		{"fragmentation", w.Fragmentation},
		{"coupling", w.Coupling},
		{"hotspot_commits", w.HotspotCommits},
	}
	for _, c := range checks {
		if c.value < 0 || math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return fmt.Errorf("%w: weight %q is %v", ErrInvalidWeights, c.name, c.value)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > WeightSumTolerance {
		return fmt.Errorf("%w: weights sum to %.4f, expected 1.0 (±%.3f)", ErrInvalidWeights, sum, WeightSumTolerance)
	}
	return nil
}
