package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/crewline/crewline/pkg/models"
)

func sampleRanking() *models.RankingAnalysis {
	lastCommit := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	return &models.RankingAnalysis{
		Repository:      "demo",
		GeneratedAt:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		TotalDevelopers: 1,
		Weights:         models.DefaultWeights(),
		Rankings: []models.DeveloperRanking{
			{
				Rank:          1,
				Developer:     "Alice",
				Email:         "alice@example.com",
				WeightedScore: 75.25,
				Metrics: models.DeveloperMetrics{
					Commits:            100,
					LinesAdded:         2000,
					LinesDeleted:       500,
					TotalChurn:         2500,
					HotspotScore:       115.2,
					HotspotFilesCount:  3,
					HotspotCommits:     3,
					OwnershipScore:     1.8,
					FilesOwnedCount:    3,
					ComplexityScore:    200.5,
					CommunicationScore: 22.8,
					CollaboratorsCount: 2,
					RecencyScore:       45.5,
					FragmentationScore: 50.0,
					CouplingScore:      40.0,
					LastCommitDate:     &lastCommit,
				},
				NormalizedScores: models.SignalScores{
					Commits: 100, Churn: 100, HotspotWork: 100, Ownership: 100,
					Complexity: 100, Communication: 100, Recency: 100,
					Fragmentation: 100, Coupling: 100, HotspotCommits: 100,
				},
				TopHotspotFiles:  []string{"core/engine.go"},
				TopOwnedFiles:    []models.OwnedFile{{Path: "core/engine.go", Ownership: 0.9}},
				TopCollaborators: []models.Collaborator{{Name: "Bob", SharedFiles: 5, Strength: 40}},
			},
		},
	}
}

func TestRankingJSONRoundTrip(t *testing.T) {
	want := sampleRanking()

	var buf bytes.Buffer
	if err := WriteRankingJSON(&buf, want); err != nil {
		t.Fatalf("WriteRankingJSON: %v", err)
	}
	got, err := ReadRankingJSON(&buf)
	if err != nil {
		t.Fatalf("ReadRankingJSON: %v", err)
	}

	if got.Repository != want.Repository || got.TotalDevelopers != want.TotalDevelopers {
		t.Errorf("header mismatch: %+v", got)
	}
	if len(got.Rankings) != 1 {
		t.Fatalf("Rankings = %d, want 1", len(got.Rankings))
	}

	gr, wr := got.Rankings[0], want.Rankings[0]
	if gr.Developer != wr.Developer || gr.Rank != wr.Rank || gr.Email != wr.Email {
		t.Errorf("identity mismatch: %+v", gr)
	}
	if math.Abs(gr.WeightedScore-wr.WeightedScore) > 1e-6 {
		t.Errorf("WeightedScore = %v, want %v", gr.WeightedScore, wr.WeightedScore)
	}
	if math.Abs(gr.Metrics.HotspotScore-wr.Metrics.HotspotScore) > 1e-6 {
		t.Errorf("HotspotScore = %v, want %v", gr.Metrics.HotspotScore, wr.Metrics.HotspotScore)
	}
	if math.Abs(gr.NormalizedScores.Ownership-wr.NormalizedScores.Ownership) > 1e-6 {
		t.Errorf("normalized ownership = %v", gr.NormalizedScores.Ownership)
	}
	if gr.Metrics.LastCommitDate == nil || !gr.Metrics.LastCommitDate.Equal(*wr.Metrics.LastCommitDate) {
		t.Errorf("LastCommitDate = %v", gr.Metrics.LastCommitDate)
	}
	if len(gr.TopCollaborators) != 1 || gr.TopCollaborators[0].Strength != 40 {
		t.Errorf("TopCollaborators = %+v", gr.TopCollaborators)
	}
}

func TestRankingCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRankingCSV(&buf, sampleRanking()); err != nil {
		t.Fatalf("WriteRankingCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want header + 1 row", len(records))
	}
	if records[0][0] != "rank" || records[0][len(records[0])-1] != "last_commit_date" {
		t.Errorf("unexpected header: %v", records[0])
	}

	row := records[1]
	if row[0] != "1" || row[1] != "Alice" || row[3] != "75.25" {
		t.Errorf("unexpected row: %v", row)
	}
	if !strings.HasPrefix(row[len(row)-1], "2025-05-20") {
		t.Errorf("last_commit_date = %q", row[len(row)-1])
	}
}

func TestHotspotsJSONRoundTrip(t *testing.T) {
	want := &models.HotspotAnalysis{
		Repository:  "demo",
		GeneratedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Files: []models.FileHotspot{
			{Path: "core/engine.go", HotspotScore: 192.0, RiskLevel: models.RiskCritical, Revisions: 60, AvgComplexity: 16},
		},
		UnmatchedFiles: 2,
	}
	want.CalculateSummary()

	var buf bytes.Buffer
	if err := WriteHotspotsJSON(&buf, want); err != nil {
		t.Fatalf("WriteHotspotsJSON: %v", err)
	}
	got, err := ReadHotspotsJSON(&buf)
	if err != nil {
		t.Fatalf("ReadHotspotsJSON: %v", err)
	}

	if got.UnmatchedFiles != 2 || len(got.Files) != 1 {
		t.Fatalf("unexpected report: %+v", got)
	}
	f := got.Files[0]
	if math.Abs(f.HotspotScore-192.0) > 1e-6 || f.RiskLevel != models.RiskCritical {
		t.Errorf("file = %+v", f)
	}
}

func TestHotspotsCSVFeedsLoaderShape(t *testing.T) {
	a := &models.HotspotAnalysis{
		Files: []models.FileHotspot{
			{Path: "a.go", HotspotScore: 10.5, RiskLevel: models.RiskMedium, Revisions: 21, AvgComplexity: 2.5},
		},
	}

	var buf bytes.Buffer
	if err := WriteHotspotsCSV(&buf, a); err != nil {
		t.Fatalf("WriteHotspotsCSV: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "file,hotspot_score,risk_level,revisions,avg_complexity") {
		t.Errorf("header mismatch:\n%s", out)
	}
	if !strings.Contains(out, "a.go,10.50,MEDIUM,21,2.50") {
		t.Errorf("row mismatch:\n%s", out)
	}
}

func TestSaveFile(t *testing.T) {
	path := t.TempDir() + "/report.json"
	err := SaveFile(path, func(w io.Writer) error {
		return WriteRankingJSON(w, sampleRanking())
	})
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
}
