// Package report persists analysis results as JSON and flat CSV files.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/crewline/crewline/pkg/models"
)

// rankingCSVHeader matches the flat per-developer export consumed by
// downstream spreadsheets.
var rankingCSVHeader = []string{
	"rank", "developer", "email", "weighted_score",
	"commits", "lines_added", "lines_deleted", "total_churn",
	"hotspot_score", "hotspot_files_count", "hotspot_commits",
	"ownership_score", "files_owned_count",
	"complexity_score", "communication_score", "collaborators_count",
	"recency_score", "fragmentation_score", "coupling_score",
	"last_commit_date",
}

var hotspotCSVHeader = []string{
	"file", "hotspot_score", "risk_level", "revisions",
	"avg_complexity", "max_complexity", "function_count", "total_loc",
}

// WriteRankingJSON writes the full ranking report as indented JSON.
func WriteRankingJSON(w io.Writer, a *models.RankingAnalysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

// ReadRankingJSON decodes a ranking report written by WriteRankingJSON.
func ReadRankingJSON(r io.Reader) (*models.RankingAnalysis, error) {
	var a models.RankingAnalysis
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decoding ranking report: %w", err)
	}
	return &a, nil
}

// WriteRankingCSV writes the flat per-developer CSV export.
func WriteRankingCSV(w io.Writer, a *models.RankingAnalysis) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rankingCSVHeader); err != nil {
		return err
	}
	for _, r := range a.Rankings {
		lastCommit := ""
		if r.Metrics.LastCommitDate != nil {
			lastCommit = r.Metrics.LastCommitDate.Format(time.RFC3339)
		}
		rec := []string{
			strconv.Itoa(r.Rank),
			r.Developer,
			r.Email,
			formatFloat(r.WeightedScore),
			strconv.Itoa(r.Metrics.Commits),
			strconv.Itoa(r.Metrics.LinesAdded),
			strconv.Itoa(r.Metrics.LinesDeleted),
			strconv.Itoa(r.Metrics.TotalChurn),
			formatFloat(r.Metrics.HotspotScore),
			strconv.Itoa(r.Metrics.HotspotFilesCount),
			strconv.Itoa(r.Metrics.HotspotCommits),
			formatFloat(r.Metrics.OwnershipScore),
			strconv.Itoa(r.Metrics.FilesOwnedCount),
			formatFloat(r.Metrics.ComplexityScore),
			formatFloat(r.Metrics.CommunicationScore),
			strconv.Itoa(r.Metrics.CollaboratorsCount),
			formatFloat(r.Metrics.RecencyScore),
			formatFloat(r.Metrics.FragmentationScore),
			formatFloat(r.Metrics.CouplingScore),
			lastCommit,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteHotspotsJSON writes the hotspot table as indented JSON.
func WriteHotspotsJSON(w io.Writer, a *models.HotspotAnalysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

// ReadHotspotsJSON decodes a hotspot report written by WriteHotspotsJSON.
func ReadHotspotsJSON(r io.Reader) (*models.HotspotAnalysis, error) {
	var a models.HotspotAnalysis
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decoding hotspot report: %w", err)
	}
	return &a, nil
}

// WriteHotspotsCSV writes the hotspot table in the same shape the loader
// accepts as a precomputed table, so one run's output feeds the next run.
func WriteHotspotsCSV(w io.Writer, a *models.HotspotAnalysis) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(hotspotCSVHeader); err != nil {
		return err
	}
	for _, f := range a.Files {
		rec := []string{
			f.Path,
			formatFloat(f.HotspotScore),
			string(f.RiskLevel),
			strconv.Itoa(f.Revisions),
			formatFloat(f.AvgComplexity),
			strconv.Itoa(f.MaxComplexity),
			strconv.Itoa(f.FunctionCount),
			strconv.Itoa(f.TotalLOC),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveFile writes one report to path using the given writer function.
func SaveFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
