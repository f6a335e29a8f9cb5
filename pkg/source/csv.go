package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/crewline/crewline/pkg/models"
)

// row is one decoded CSV record keyed by header name.
type row map[string]string

func (r row) str(col string) string {
	return strings.TrimSpace(r[col])
}

func (r row) int(col string) (int, error) {
	v, err := strconv.Atoi(r.str(col))
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", col, err)
	}
	return v, nil
}

func (r row) float(col string) (float64, error) {
	v, err := strconv.ParseFloat(r.str(col), 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", col, err)
	}
	return v, nil
}

// readCSV streams a header-keyed CSV file. Rows that fail decode are skipped
// with a warning; a header missing a required column invalidates the whole
// file, which then behaves like a missing source.
func readCSV(path string, res *sourceResult, required []string, decode func(row) error) {
	f, err := os.Open(path)
	if err != nil {
		res.missing = true
		res.warn("", err.Error())
		return
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		res.missing = true
		res.warn("", "unreadable header: "+err.Error())
		return
	}
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			res.missing = true
			res.warn("", fmt.Sprintf("header lacks required column %q", col))
			return
		}
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			res.warn(strings.Join(rec, ","), err.Error())
			continue
		}
		fields := make(row, len(header))
		skip := false
		for col, i := range idx {
			if i >= len(rec) {
				res.warn(strings.Join(rec, ","), "short record")
				skip = true
				break
			}
			fields[col] = rec[i]
		}
		if skip {
			continue
		}
		if err := decode(fields); err != nil {
			res.warn(strings.Join(rec, ","), err.Error())
		}
	}
}

func (l *Loader) loadRevisions() ([]RevisionRow, *sourceResult) {
	res := &sourceResult{name: "revisions"}
	path, ok := l.findFile(l.csvCandidates("revisions")...)
	if !ok {
		res.missing = true
		return nil, res
	}

	var rows []RevisionRow
	readCSV(path, res, []string{"entity", "n-revs"}, func(r row) error {
		revs, err := r.int("n-revs")
		if err != nil {
			return err
		}
		rows = append(rows, RevisionRow{Entity: r.str("entity"), Revisions: revs})
		return nil
	})
	return rows, res
}

func (l *Loader) loadOwnership() ([]OwnershipRow, *sourceResult) {
	res := &sourceResult{name: "entity_ownership"}
	path, ok := l.findFile(l.csvCandidates("entity_ownership")...)
	if !ok {
		res.missing = true
		return nil, res
	}

	var rows []OwnershipRow
	readCSV(path, res, []string{"entity", "author", "added", "deleted"}, func(r row) error {
		added, err := r.int("added")
		if err != nil {
			return err
		}
		deleted, err := r.int("deleted")
		if err != nil {
			return err
		}
		rows = append(rows, OwnershipRow{
			Entity:  r.str("entity"),
			Author:  r.str("author"),
			Added:   added,
			Deleted: deleted,
		})
		return nil
	})
	return rows, res
}

func (l *Loader) loadMainDevs() ([]MainDevRow, *sourceResult) {
	res := &sourceResult{name: "main_dev"}
	path, ok := l.findFile(l.csvCandidates("main_dev")...)
	if !ok {
		res.missing = true
		return nil, res
	}

	var rows []MainDevRow
	readCSV(path, res, []string{"entity", "main-dev", "ownership"}, func(r row) error {
		ownership, err := r.float("ownership")
		if err != nil {
			return err
		}
		rows = append(rows, MainDevRow{
			Entity:    r.str("entity"),
			MainDev:   r.str("main-dev"),
			Ownership: ownership,
		})
		return nil
	})
	return rows, res
}

func (l *Loader) loadCommunication() ([]CommunicationRow, *sourceResult) {
	res := &sourceResult{name: "communication"}
	path, ok := l.findFile(l.csvCandidates("communication")...)
	if !ok {
		res.missing = true
		return nil, res
	}

	var rows []CommunicationRow
	readCSV(path, res, []string{"author", "peer", "shared", "strength"}, func(r row) error {
		shared, err := r.int("shared")
		if err != nil {
			return err
		}
		strength, err := r.int("strength")
		if err != nil {
			return err
		}
		rows = append(rows, CommunicationRow{
			Author:   r.str("author"),
			Peer:     r.str("peer"),
			Shared:   shared,
			Strength: strength,
		})
		return nil
	})
	return rows, res
}

func (l *Loader) loadFragmentation() ([]FragmentationRow, *sourceResult) {
	res := &sourceResult{name: "fragmentation"}
	path, ok := l.findFile(l.csvCandidates("fragmentation")...)
	if !ok {
		res.missing = true
		return nil, res
	}

	var rows []FragmentationRow
	readCSV(path, res, []string{"entity", "fractal-value"}, func(r row) error {
		fractal, err := r.float("fractal-value")
		if err != nil {
			return err
		}
		rows = append(rows, FragmentationRow{Entity: r.str("entity"), FractalValue: fractal})
		return nil
	})
	return rows, res
}

func (l *Loader) loadCoupling() ([]CouplingRow, *sourceResult) {
	res := &sourceResult{name: "soc"}
	path, ok := l.findFile(l.csvCandidates("soc")...)
	if !ok {
		res.missing = true
		return nil, res
	}

	var rows []CouplingRow
	readCSV(path, res, []string{"entity", "soc"}, func(r row) error {
		soc, err := r.int("soc")
		if err != nil {
			return err
		}
		rows = append(rows, CouplingRow{Entity: r.str("entity"), SOC: soc})
		return nil
	})
	return rows, res
}

// loadHotspots reads a precomputed hotspot table. The rank command uses it
// when revisions or complexity inputs are absent; hotspots computed
// in-process take precedence.
func (l *Loader) loadHotspots() ([]models.FileHotspot, *sourceResult) {
	res := &sourceResult{name: "hotspots"}
	path, ok := l.findFile(l.repo+"_hotspots.csv", "hotspots.csv")
	if !ok {
		res.missing = true
		return nil, res
	}

	var files []models.FileHotspot
	readCSV(path, res, []string{"file", "hotspot_score", "risk_level", "revisions", "avg_complexity"}, func(r row) error {
		score, err := r.float("hotspot_score")
		if err != nil {
			return err
		}
		revs, err := r.int("revisions")
		if err != nil {
			return err
		}
		avg, err := r.float("avg_complexity")
		if err != nil {
			return err
		}
		files = append(files, models.FileHotspot{
			Path:          r.str("file"),
			HotspotScore:  score,
			RiskLevel:     models.RiskLevel(r.str("risk_level")),
			Revisions:     revs,
			AvgComplexity: avg,
		})
		return nil
	})
	return files, res
}
