package ranking

import (
	"time"

	"github.com/crewline/crewline/pkg/analyzer/filemetrics"
	"github.com/crewline/crewline/pkg/analyzer/hotspot"
	"github.com/crewline/crewline/pkg/models"
	"github.com/crewline/crewline/pkg/source"
)

// unknownAuthor stands in for commits with an empty author name.
const unknownAuthor = "Unknown"

// developer carries one contributor's accumulated raw signals. Contributors
// are keyed by display name because that is the only identity the upstream
// CSV exports carry; name variants of the same person stay separate records.
type developer struct {
	name  string
	email string

	commits        int
	linesAdded     int
	linesDeleted   int
	hotspotWork    float64
	hotspotCommits int
	ownership      float64
	complexity     float64
	communication  float64
	recency        float64
	fragmentation  float64
	coupling       float64
	lastCommit     time.Time

	ownedFiles    []models.OwnedFile
	hotspotFiles  []string
	hotspotSeen   map[string]struct{}
	collaborators []models.Collaborator
	collabSeen    map[string]struct{}
}

// table is the run-scoped developer lookup. Encounter order is retained so
// ties in the final ranking break deterministically.
type table struct {
	byName map[string]*developer
	order  []*developer
}

func newTable() *table {
	return &table{byName: make(map[string]*developer)}
}

func (t *table) get(name string) *developer {
	if name == "" {
		name = unknownAuthor
	}
	d, ok := t.byName[name]
	if !ok {
		d = &developer{
			name:        name,
			hotspotSeen: make(map[string]struct{}),
			collabSeen:  make(map[string]struct{}),
		}
		t.byName[name] = d
		t.order = append(t.order, d)
	}
	return d
}

// recencyWeight buckets a commit's age into its recency contribution.
func recencyWeight(daysAgo int) float64 {
	switch {
	case daysAgo <= 30:
		return 10.0
	case daysAgo <= 90:
		return 5.0
	case daysAgo <= 180:
		return 2.0
	case daysAgo <= 365:
		return 1.0
	default:
		return 0.5
	}
}

// addCommits folds the commit log into commit counts, recency and last-seen
// tracking. The first non-empty email wins; commits without a usable
// timestamp count but add no recency.
func (t *table) addCommits(commits []source.Commit, now time.Time) {
	for _, c := range commits {
		d := t.get(c.AuthorName)
		d.commits++
		if d.email == "" && c.AuthorEmail != "" {
			d.email = c.AuthorEmail
		}
		if c.Timestamp.IsZero() {
			continue
		}
		if c.Timestamp.After(d.lastCommit) {
			d.lastCommit = c.Timestamp
		}
		days := int(now.Sub(c.Timestamp).Hours() / 24)
		d.recency += recencyWeight(days)
	}
}

// addOwnership folds per-author line churn into churn, hotspot work,
// complexity, fragmentation and coupling. Each file-level contribution only
// applies when the row's entity reconciles with the matching table; a miss
// leaves that one signal untouched (the churn part always lands).
func (t *table) addOwnership(rows []source.OwnershipRow, hotspots *hotspot.Index, files *filemetrics.Store) {
	for _, row := range rows {
		d := t.get(row.Author)
		changed := row.Added + row.Deleted
		d.linesAdded += row.Added
		d.linesDeleted += row.Deleted

		if hotspots != nil {
			if h, ok := hotspots.Lookup(row.Entity); ok {
				d.hotspotWork += float64(changed) * h.HotspotScore / 100.0
				if _, seen := d.hotspotSeen[h.Path]; !seen {
					d.hotspotSeen[h.Path] = struct{}{}
					d.hotspotFiles = append(d.hotspotFiles, h.Path)
					d.hotspotCommits++
				}
			}
		}

		if files == nil {
			continue
		}
		if e, ok := files.Lookup(row.Entity); ok {
			if e.HasComplexity {
				d.complexity += float64(changed) * e.AvgComplexity() / 10.0
			}
			if e.HasFragmentation {
				d.fragmentation += float64(changed) * e.FractalValue
			}
			if e.HasCoupling {
				d.coupling += float64(changed) * float64(e.Coupling) / 1000.0
			}
		}
	}
}

// addMainDevs folds ownership fractions and the owned-file list.
func (t *table) addMainDevs(rows []source.MainDevRow) {
	for _, row := range rows {
		d := t.get(row.MainDev)
		d.ownership += row.Ownership
		d.ownedFiles = append(d.ownedFiles, models.OwnedFile{
			Path:      row.Entity,
			Ownership: row.Ownership,
		})
	}
}

// addCommunication folds collaboration edges. The score accumulates per row;
// the collaborator list is deduplicated by peer name.
func (t *table) addCommunication(rows []source.CommunicationRow) {
	for _, row := range rows {
		d := t.get(row.Author)
		d.communication += float64(row.Shared) * float64(row.Strength) / 10.0
		if _, seen := d.collabSeen[row.Peer]; !seen {
			d.collabSeen[row.Peer] = struct{}{}
			d.collaborators = append(d.collaborators, models.Collaborator{
				Name:        row.Peer,
				SharedFiles: row.Shared,
				Strength:    row.Strength,
			})
		}
	}
}
