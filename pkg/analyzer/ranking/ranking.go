// Package ranking fuses the decoded analysis sources into a weighted
// contributor ranking across ten activity signals.
package ranking

import (
	"math"
	"sort"
	"time"

	"github.com/crewline/crewline/pkg/analyzer/filemetrics"
	"github.com/crewline/crewline/pkg/analyzer/hotspot"
	"github.com/crewline/crewline/pkg/models"
	"github.com/crewline/crewline/pkg/source"
)

// topListLimit caps the per-developer detail lists in reports.
const topListLimit = 10

// Analyzer computes the developer ranking for one decoded bundle.
type Analyzer struct {
	weights    models.Weights
	repository string
	now        func() time.Time
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithWeights overrides the default weight vector.
func WithWeights(w models.Weights) Option {
	return func(a *Analyzer) {
		a.weights = w
	}
}

// WithRepository overrides the repository name recorded in the result.
func WithRepository(name string) Option {
	return func(a *Analyzer) {
		a.repository = name
	}
}

// WithClock overrides the analysis timestamp source, which also anchors
// recency bucketing. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// New creates a ranking analyzer with default weights.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{weights: models.DefaultWeights(), now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the full pipeline: weight validation, file metric fusion,
// hotspot resolution, signal accumulation, normalization and the final
// weighted sort. Weight validation failures abort before any accumulation.
// All accumulation is single-threaded; the bundle is already materialized.
func (a *Analyzer) Analyze(b *source.Bundle) (*models.RankingAnalysis, error) {
	if err := a.weights.Validate(); err != nil {
		return nil, err
	}

	repo := a.repository
	if repo == "" {
		repo = b.Repository
	}
	now := a.now()

	store := filemetrics.FromBundle(b)

	// Prefer computing the hotspot table in-process; fall back to a
	// precomputed one when revision or complexity inputs are absent.
	var index *hotspot.Index
	if len(b.Revisions) > 0 && len(b.Functions) > 0 {
		hs := hotspot.New(hotspot.WithRepository(repo), hotspot.WithClock(a.now)).Analyze(store)
		index = hotspot.NewIndex(hs)
	} else if len(b.Hotspots) > 0 {
		index = hotspot.NewIndex(&models.HotspotAnalysis{Files: b.Hotspots})
	}

	t := newTable()
	t.addCommits(b.Commits, now)
	t.addOwnership(b.Ownership, index, store)
	t.addMainDevs(b.MainDevs)
	t.addCommunication(b.Communication)

	normalized := normalize(t.order)

	rows := make([]models.DeveloperRanking, len(t.order))
	for i, d := range t.order {
		rows[i] = buildRanking(d, normalized[i], a.weights)
	}

	// Stable sort so equal scores keep encounter order.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].WeightedScore > rows[j].WeightedScore
	})
	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].WeightedScore = round2(rows[i].WeightedScore)
	}

	return &models.RankingAnalysis{
		Repository:      repo,
		GeneratedAt:     now.UTC(),
		TotalDevelopers: len(rows),
		Weights:         a.weights,
		Rankings:        rows,
	}, nil
}

// buildRanking assembles one report row. The composite score is computed
// from unrounded normalized values; rounding happens only at the edges.
func buildRanking(d *developer, normalized models.SignalScores, w models.Weights) models.DeveloperRanking {
	row := models.DeveloperRanking{
		Developer:     d.name,
		Email:         d.email,
		WeightedScore: normalized.Weighted(w),
		Metrics: models.DeveloperMetrics{
			Commits:            d.commits,
			LinesAdded:         d.linesAdded,
			LinesDeleted:       d.linesDeleted,
			TotalChurn:         d.linesAdded + d.linesDeleted,
			HotspotScore:       round2(d.hotspotWork),
			HotspotFilesCount:  len(d.hotspotFiles),
			HotspotCommits:     d.hotspotCommits,
			OwnershipScore:     round2(d.ownership),
			FilesOwnedCount:    len(d.ownedFiles),
			ComplexityScore:    round2(d.complexity),
			CommunicationScore: round2(d.communication),
			CollaboratorsCount: len(d.collaborators),
			RecencyScore:       round2(d.recency),
			FragmentationScore: round2(d.fragmentation),
			CouplingScore:      round2(d.coupling),
		},
		NormalizedScores: models.SignalScores{
			Commits:        round2(normalized.Commits),
			Churn:          round2(normalized.Churn),
			HotspotWork:    round2(normalized.HotspotWork),
			Ownership:      round2(normalized.Ownership),
			Complexity:     round2(normalized.Complexity),
			Communication:  round2(normalized.Communication),
			Recency:        round2(normalized.Recency),
			Fragmentation:  round2(normalized.Fragmentation),
			Coupling:       round2(normalized.Coupling),
			HotspotCommits: round2(normalized.HotspotCommits),
		},
		TopHotspotFiles:  topHotspots(d.hotspotFiles),
		TopOwnedFiles:    topOwned(d.ownedFiles),
		TopCollaborators: topCollaborators(d.collaborators),
	}
	if !d.lastCommit.IsZero() {
		ts := d.lastCommit
		row.Metrics.LastCommitDate = &ts
	}
	return row
}

// topHotspots keeps encounter order, matching how the files were first
// credited.
func topHotspots(files []string) []string {
	out := make([]string, 0, min(len(files), topListLimit))
	out = append(out, files[:min(len(files), topListLimit)]...)
	return out
}

func topOwned(files []models.OwnedFile) []models.OwnedFile {
	out := make([]models.OwnedFile, len(files))
	copy(out, files)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Ownership > out[j].Ownership
	})
	if len(out) > topListLimit {
		out = out[:topListLimit]
	}
	return out
}

func topCollaborators(collabs []models.Collaborator) []models.Collaborator {
	out := make([]models.Collaborator, len(collabs))
	copy(out, collabs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Strength > out[j].Strength
	})
	if len(out) > topListLimit {
		out = out[:topListLimit]
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
