// Package hotspot scores files that combine high change frequency with high
// complexity, producing the ranked hotspot table.
package hotspot

import (
	"sort"
	"time"

	"github.com/crewline/crewline/pkg/analyzer/filemetrics"
	"github.com/crewline/crewline/pkg/analyzer/pathkey"
	"github.com/crewline/crewline/pkg/models"
)

// Analyzer builds a hotspot table from a fused file metric store.
type Analyzer struct {
	repository string
	now        func() time.Time
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithRepository sets the repository name recorded in the result.
func WithRepository(name string) Option {
	return func(a *Analyzer) {
		a.repository = name
	}
}

// WithClock overrides the analysis timestamp source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// New creates a new hotspot analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scores every entity that has both revisions and joined complexity
// data. Entities missing either side stay out of the table; join misses
// recorded by the store surface as UnmatchedFiles.
func (a *Analyzer) Analyze(store *filemetrics.Store) *models.HotspotAnalysis {
	analysis := &models.HotspotAnalysis{
		Repository:     a.repository,
		GeneratedAt:    a.now().UTC(),
		Files:          make([]models.FileHotspot, 0, store.Len()),
		UnmatchedFiles: store.Unmatched(),
	}

	for _, e := range store.Entities() {
		if e.Revisions == 0 || !e.HasComplexity {
			continue
		}
		avg := e.AvgComplexity()
		analysis.Files = append(analysis.Files, models.FileHotspot{
			Path:          e.Path,
			HotspotScore:  models.HotspotScore(e.Revisions, avg),
			RiskLevel:     models.ClassifyRisk(e.Revisions, avg),
			Revisions:     e.Revisions,
			AvgComplexity: avg,
			MaxComplexity: e.MaxComplexity,
			FunctionCount: e.FunctionCount,
			TotalLOC:      e.TotalLOC,
		})
	}

	// Stable sort keeps encounter order for equal scores.
	sort.SliceStable(analysis.Files, func(i, j int) bool {
		return analysis.Files[i].HotspotScore > analysis.Files[j].HotspotScore
	})

	analysis.CalculateSummary()

	return analysis
}

// Index provides reconciled path lookups into a hotspot table. The ranking
// accumulator uses it to credit contributors for work on hotspot files.
type Index struct {
	matcher *pathkey.Matcher
	byKey   map[string]*models.FileHotspot
}

// NewIndex builds a lookup index over a hotspot analysis.
func NewIndex(analysis *models.HotspotAnalysis) *Index {
	ix := &Index{
		matcher: pathkey.NewMatcher(),
		byKey:   make(map[string]*models.FileHotspot, len(analysis.Files)),
	}
	for i := range analysis.Files {
		f := &analysis.Files[i]
		key := ix.matcher.Add(f.Path)
		ix.byKey[key] = f
	}
	return ix
}

// Lookup resolves a path against the hotspot table. Misses are expected for
// files that never became hotspots and are not counted anywhere.
func (ix *Index) Lookup(path string) (*models.FileHotspot, bool) {
	key, ok := ix.matcher.Peek(path)
	if !ok {
		return nil, false
	}
	f, ok := ix.byKey[key]
	return f, ok
}

// Len returns the number of indexed hotspot files.
func (ix *Index) Len() int {
	return len(ix.byKey)
}
