package models

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// RiskLevel represents the change-risk category of a hotspot file.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Ordinal returns the numeric order of the risk level (LOW=0 .. CRITICAL=3).
func (r RiskLevel) Ordinal() int {
	switch r {
	case RiskCritical:
		return 3
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

// HotspotScore computes the hotspot score from revision count and average
// cyclomatic complexity, rounded to two decimals. The divisors are calibration
// constants carried over from the upstream analysis pipeline.
func HotspotScore(revisions int, avgComplexity float64) float64 {
	score := (float64(revisions) / 10.0) * (avgComplexity / 5.0) * 10.0
	return math.Round(score*100) / 100
}

// ClassifyRisk determines the risk level from revision count and average
// complexity. Rules are checked in order; the first match wins.
func ClassifyRisk(revisions int, avgComplexity float64) RiskLevel {
	switch {
	case revisions >= 50 && avgComplexity >= 15:
		return RiskCritical
	case revisions >= 50 && avgComplexity >= 8:
		return RiskHigh
	case revisions >= 30 && avgComplexity >= 8:
		return RiskHigh
	case revisions >= 20 || avgComplexity >= 10:
		return RiskMedium
	default:
		return RiskLow
	}
}

// FileHotspot represents one file that has both a revision count and a
// matched complexity aggregate.
type FileHotspot struct {
	Path          string    `json:"file"`
	HotspotScore  float64   `json:"hotspot_score"`
	RiskLevel     RiskLevel `json:"risk_level"`
	Revisions     int       `json:"revisions"`
	AvgComplexity float64   `json:"avg_complexity"`
	MaxComplexity int       `json:"max_complexity"`
	FunctionCount int       `json:"function_count"`
	TotalLOC      int       `json:"total_loc"`
}

// HotspotSummary provides aggregate statistics for a hotspot table.
type HotspotSummary struct {
	TotalFiles    int     `json:"total_files"`
	CriticalCount int     `json:"critical_count"`
	HighCount     int     `json:"high_count"`
	MediumCount   int     `json:"medium_count"`
	LowCount      int     `json:"low_count"`
	MaxScore      float64 `json:"max_score"`
	AvgScore      float64 `json:"avg_score"`
	P50Score      float64 `json:"p50_score"`
	P90Score      float64 `json:"p90_score"`
}

// HotspotAnalysis represents the full hotspot table for one run.
//
// UnmatchedFiles counts every join miss against the revision table:
// complexity, coupling and fragmentation entries whose paths could not be
// reconciled. They are excluded from Files and reported for visibility; an
// unmatched file is never an error.
type HotspotAnalysis struct {
	Repository     string         `json:"repository"`
	GeneratedAt    time.Time      `json:"generated_at"`
	Files          []FileHotspot  `json:"files"`
	UnmatchedFiles int            `json:"unmatched_files"`
	Summary        HotspotSummary `json:"summary"`
}

// CalculateSummary computes summary statistics from the hotspot table.
// Files must be sorted by HotspotScore descending before calling.
func (h *HotspotAnalysis) CalculateSummary() {
	if len(h.Files) == 0 {
		return
	}

	h.Summary.TotalFiles = len(h.Files)
	h.Summary.MaxScore = h.Files[0].HotspotScore

	scores := make([]float64, len(h.Files))
	for i, f := range h.Files {
		scores[i] = f.HotspotScore
		switch f.RiskLevel {
		case RiskCritical:
			h.Summary.CriticalCount++
		case RiskHigh:
			h.Summary.HighCount++
		case RiskMedium:
			h.Summary.MediumCount++
		default:
			h.Summary.LowCount++
		}
	}

	h.Summary.AvgScore = stat.Mean(scores, nil)

	// Quantile expects ascending order.
	sort.Float64s(scores)
	h.Summary.P50Score = stat.Quantile(0.50, stat.Empirical, scores, nil)
	h.Summary.P90Score = stat.Quantile(0.90, stat.Empirical, scores, nil)
}
