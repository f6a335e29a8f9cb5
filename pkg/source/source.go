// Package source decodes the analysis artifacts produced for one repository:
// the commit log, CodeMaat-style CSV exports and the complexity report.
// Decoding is the single validated step that turns raw files into typed
// records; everything downstream consumes fully materialized bundles.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/crewline/crewline/pkg/models"
)

// Warning describes a non-fatal problem found while decoding a source.
type Warning struct {
	Source string
	Record string
	Reason string
}

func (w Warning) String() string {
	if w.Record == "" {
		return fmt.Sprintf("%s: %s", w.Source, w.Reason)
	}
	return fmt.Sprintf("%s: record %q: %s", w.Source, w.Record, w.Reason)
}

// WarnFunc receives decode warnings. May be nil.
type WarnFunc func(Warning)

// Commit is one record from commits.json. Timestamp is parsed from Date and
// left zero when the date is malformed; such commits still count, they just
// contribute nothing to recency.
type Commit struct {
	Hash        string `json:"hash"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Date        string `json:"date"`
	Message     string `json:"message"`

	Timestamp time.Time `json:"-"`
}

// RevisionRow is one row of the revisions CSV (entity, n-revs).
type RevisionRow struct {
	Entity    string
	Revisions int
}

// OwnershipRow is one row of the entity ownership CSV
// (entity, author, added, deleted).
type OwnershipRow struct {
	Entity  string
	Author  string
	Added   int
	Deleted int
}

// MainDevRow is one row of the main developer CSV
// (entity, main-dev, added, total-added, ownership).
type MainDevRow struct {
	Entity    string
	MainDev   string
	Ownership float64
}

// CommunicationRow is one row of the communication CSV
// (author, peer, shared, strength).
type CommunicationRow struct {
	Author   string
	Peer     string
	Shared   int
	Strength int
}

// FragmentationRow is one row of the fragmentation CSV (entity, fractal-value).
type FragmentationRow struct {
	Entity       string
	FractalValue float64
}

// CouplingRow is one row of the sum-of-coupling CSV (entity, soc).
type CouplingRow struct {
	Entity string
	SOC    int
}

// FunctionRow is one function measurement from complexity.json.
type FunctionRow struct {
	File        string `json:"file"`
	Cyclomatic  int    `json:"cyclomatic_complexity"`
	LinesOfCode int    `json:"lines_of_code"`
}

// Bundle holds every decoded input for one run. Missing lists sources whose
// file was absent; their slices stay empty and the corresponding signals
// stay zero.
type Bundle struct {
	Repository    string
	Commits       []Commit
	Revisions     []RevisionRow
	Ownership     []OwnershipRow
	MainDevs      []MainDevRow
	Communication []CommunicationRow
	Fragmentation []FragmentationRow
	Coupling      []CouplingRow
	Functions     []FunctionRow
	Hotspots      []models.FileHotspot

	Missing []string
}

// Option configures a Loader.
type Option func(*Loader)

// WithRepository overrides the repository name used for file discovery.
// Defaults to the base name of the results directory.
func WithRepository(name string) Option {
	return func(l *Loader) {
		l.repo = name
	}
}

// WithWarnFunc sets the warning callback.
func WithWarnFunc(fn WarnFunc) Option {
	return func(l *Loader) {
		l.warnf = fn
	}
}

// Loader reads all analysis inputs from a results directory.
type Loader struct {
	dir   string
	repo  string
	warnf WarnFunc
}

// NewLoader creates a loader for the given results directory.
func NewLoader(dir string, opts ...Option) *Loader {
	l := &Loader{dir: dir, repo: filepath.Base(filepath.Clean(dir))}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// sourceResult collects one source's decode output so warnings can be
// emitted in deterministic order after the concurrent phase.
type sourceResult struct {
	name     string
	missing  bool
	warnings []Warning
}

func (r *sourceResult) warn(record, reason string) {
	r.warnings = append(r.warnings, Warning{Source: r.name, Record: record, Reason: reason})
}

// Load decodes all sources. The eight files are decoded concurrently; each
// goroutine writes only its own bundle field, and warnings are replayed in a
// fixed source order once everything has settled. A missing file is never an
// error, only a warning and an empty slice.
func (l *Loader) Load(ctx context.Context) (*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := &Bundle{Repository: l.repo}
	results := make([]*sourceResult, 9)

	wg := conc.NewWaitGroup()
	wg.Go(func() { b.Commits, results[0] = l.loadCommits() })
	wg.Go(func() { b.Revisions, results[1] = l.loadRevisions() })
	wg.Go(func() { b.Ownership, results[2] = l.loadOwnership() })
	wg.Go(func() { b.MainDevs, results[3] = l.loadMainDevs() })
	wg.Go(func() { b.Communication, results[4] = l.loadCommunication() })
	wg.Go(func() { b.Fragmentation, results[5] = l.loadFragmentation() })
	wg.Go(func() { b.Coupling, results[6] = l.loadCoupling() })
	wg.Go(func() { b.Functions, results[7] = l.loadFunctions() })
	wg.Go(func() { b.Hotspots, results[8] = l.loadHotspots() })
	wg.Wait()

	for _, r := range results {
		if r.missing {
			b.Missing = append(b.Missing, r.name)
		}
		if l.warnf != nil {
			for _, w := range r.warnings {
				l.warnf(w)
			}
		}
	}

	return b, ctx.Err()
}

// findFile returns the first existing candidate under the results directory.
func (l *Loader) findFile(candidates ...string) (string, bool) {
	for _, name := range candidates {
		path := filepath.Join(l.dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// csvCandidates returns the preferred and fallback names for a CodeMaat
// export: <repo>_code-analysis_<kind>.csv, then bare <kind>.csv.
func (l *Loader) csvCandidates(kind string) []string {
	return []string{
		fmt.Sprintf("%s_code-analysis_%s.csv", l.repo, kind),
		kind + ".csv",
	}
}
