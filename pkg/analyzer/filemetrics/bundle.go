package filemetrics

import "github.com/crewline/crewline/pkg/source"

// FromBundle builds a store from decoded sources. Revision rows seed the
// entity table, then complexity, coupling and fragmentation join against it;
// every failed join raises the store's unmatched count.
func FromBundle(b *source.Bundle, opts ...Option) *Store {
	s := NewStore(opts...)
	for _, r := range b.Revisions {
		s.RecordRevisions(r.Entity, r.Revisions)
	}
	for _, f := range b.Functions {
		s.RecordFunction(f.File, f.Cyclomatic, f.LinesOfCode)
	}
	for _, c := range b.Coupling {
		s.RecordCoupling(c.Entity, c.SOC)
	}
	for _, fr := range b.Fragmentation {
		s.RecordFragmentation(fr.Entity, fr.FractalValue)
	}
	return s
}
