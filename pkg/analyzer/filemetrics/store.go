// Package filemetrics holds the run-scoped per-file metric table that fuses
// revision counts with complexity, coupling and fragmentation data.
package filemetrics

import (
	"github.com/crewline/crewline/pkg/analyzer/pathkey"
)

// Entity is the fused metric record for one file. Revisions seed the entity;
// the remaining fields are joined in from the other sources when their paths
// reconcile.
type Entity struct {
	Path            string
	Revisions       int
	TotalComplexity float64
	MaxComplexity   int
	FunctionCount   int
	TotalLOC        int
	Coupling        int
	FractalValue    float64

	HasComplexity    bool
	HasCoupling      bool
	HasFragmentation bool
}

// AvgComplexity returns total complexity divided by function count, derived
// on read so partially joined entities never hold a stale average.
func (e *Entity) AvgComplexity() float64 {
	if e.FunctionCount == 0 {
		return 0
	}
	return e.TotalComplexity / float64(e.FunctionCount)
}

// Option configures a Store.
type Option func(*Store)

// WithProgress forwards a scan-progress callback to the path matcher.
func WithProgress(fn func(scanned int)) Option {
	return func(s *Store) {
		s.progressFn = fn
	}
}

// Store owns the file entity table for a single run. It is created per run
// and discarded afterwards; nothing is shared between runs. Not safe for
// concurrent use.
type Store struct {
	matcher    *pathkey.Matcher
	entities   map[string]*Entity
	order      []string
	progressFn func(int)
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{entities: make(map[string]*Entity)}
	for _, opt := range opts {
		opt(s)
	}
	var mopts []pathkey.Option
	if s.progressFn != nil {
		mopts = append(mopts, pathkey.WithProgress(s.progressFn))
	}
	s.matcher = pathkey.NewMatcher(mopts...)
	return s
}

// RecordRevisions seeds an entity with its revision count. Revision rows are
// the authoritative entity list; all other sources join against it.
func (s *Store) RecordRevisions(path string, revisions int) {
	key := s.matcher.Add(path)
	e, ok := s.entities[key]
	if !ok {
		e = &Entity{Path: key}
		s.entities[key] = e
		s.order = append(s.order, key)
	}
	e.Revisions += revisions
}

// RecordFunction joins one function-level complexity measurement into the
// entity owning the function's file. Returns false when the path does not
// reconcile; the miss is counted, not an error.
func (s *Store) RecordFunction(path string, cyclomatic, linesOfCode int) bool {
	key, ok := s.matcher.Resolve(path)
	if !ok {
		return false
	}
	e := s.entities[key]
	e.TotalComplexity += float64(cyclomatic)
	e.FunctionCount++
	e.TotalLOC += linesOfCode
	if cyclomatic > e.MaxComplexity {
		e.MaxComplexity = cyclomatic
	}
	e.HasComplexity = true
	return true
}

// RecordCoupling joins a sum-of-coupling value. Returns false on a
// reconciliation miss.
func (s *Store) RecordCoupling(path string, soc int) bool {
	key, ok := s.matcher.Resolve(path)
	if !ok {
		return false
	}
	e := s.entities[key]
	e.Coupling = soc
	e.HasCoupling = true
	return true
}

// RecordFragmentation joins a fractal value. Returns false on a
// reconciliation miss.
func (s *Store) RecordFragmentation(path string, fractal float64) bool {
	key, ok := s.matcher.Resolve(path)
	if !ok {
		return false
	}
	e := s.entities[key]
	e.FractalValue = fractal
	e.HasFragmentation = true
	return true
}

// Lookup resolves a path read-only and returns its entity. Misses are not
// counted against the fusion unmatched total.
func (s *Store) Lookup(path string) (*Entity, bool) {
	key, ok := s.matcher.Peek(path)
	if !ok {
		return nil, false
	}
	e, ok := s.entities[key]
	return e, ok
}

// Entities returns all entities in first-seen order.
func (s *Store) Entities() []*Entity {
	out := make([]*Entity, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.entities[key])
	}
	return out
}

// Unmatched returns how many join attempts failed to reconcile.
func (s *Store) Unmatched() int {
	return s.matcher.Unmatched()
}

// Len returns the number of entities.
func (s *Store) Len() int {
	return len(s.order)
}
