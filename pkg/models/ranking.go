package models

import "time"

// DeveloperMetrics holds the raw accumulated signal values for one
// contributor, before normalization.
type DeveloperMetrics struct {
	Commits            int        `json:"commits"`
	LinesAdded         int        `json:"lines_added"`
	LinesDeleted       int        `json:"lines_deleted"`
	TotalChurn         int        `json:"total_churn"`
	HotspotScore       float64    `json:"hotspot_score"`
	HotspotFilesCount  int        `json:"hotspot_files_count"`
	HotspotCommits     int        `json:"hotspot_commits"`
	OwnershipScore     float64    `json:"ownership_score"`
	FilesOwnedCount    int        `json:"files_owned_count"`
	ComplexityScore    float64    `json:"complexity_score"`
	CommunicationScore float64    `json:"communication_score"`
	CollaboratorsCount int        `json:"collaborators_count"`
	RecencyScore       float64    `json:"recency_score"`
	FragmentationScore float64    `json:"fragmentation_score"`
	CouplingScore      float64    `json:"coupling_score"`
	LastCommitDate     *time.Time `json:"last_commit_date,omitempty"`
}

// SignalScores holds one value per ranking signal. Used for the normalized
// 0-100 scores in reports.
type SignalScores struct {
	Commits        float64 `json:"commits"`
	Churn          float64 `json:"churn"`
	HotspotWork    float64 `json:"hotspot_work"`
	Ownership      float64 `json:"ownership"`
	Complexity     float64 `json:"complexity"`
	Communication  float64 `json:"communication"`
	Recency        float64 `json:"recency"`
	Fragmentation  float64 `json:"fragmentation"`
	Coupling       float64 `json:"coupling"`
	HotspotCommits float64 `json:"hotspot_commits"`
}

// Weighted returns the composite score Σ(signal × weight).
func (s SignalScores) Weighted(w Weights) float64 {
	return s.Commits*w.Commits +
		s.Churn*w.Churn +
		s.HotspotWork*w.HotspotWork +
		s.Ownership*w.Ownership +
		s.Complexity*w.Complexity +
		s.Communication*w.Communication +
		s.Recency*w.Recency +
		s.Fragmentation*w.Fragmentation +
		s.Coupling*w.Coupling +
		s.HotspotCommits*w.HotspotCommits
}

// OwnedFile is one entry of a contributor's owned-files list.
type OwnedFile struct {
	Path      string  `json:"file"`
	Ownership float64 `json:"ownership"`
}

// Collaborator is one entry of a contributor's collaborator list.
type Collaborator struct {
	Name        string `json:"name"`
	SharedFiles int    `json:"shared_files"`
	Strength    int    `json:"strength"`
}

// DeveloperRanking is one row of the final ranking.
type DeveloperRanking struct {
	Rank             int              `json:"rank"`
	Developer        string           `json:"developer"`
	Email            string           `json:"email,omitempty"`
	WeightedScore    float64          `json:"weighted_score"`
	Metrics          DeveloperMetrics `json:"metrics"`
	NormalizedScores SignalScores     `json:"normalized_scores"`
	TopHotspotFiles  []string         `json:"top_hotspot_files"`
	TopOwnedFiles    []OwnedFile      `json:"top_owned_files"`
	TopCollaborators []Collaborator   `json:"top_collaborators"`
}

// RankingAnalysis represents the full developer ranking for one run.
type RankingAnalysis struct {
	Repository      string             `json:"repository"`
	GeneratedAt     time.Time          `json:"generated_at"`
	TotalDevelopers int                `json:"total_developers"`
	Weights         Weights            `json:"weights"`
	Rankings        []DeveloperRanking `json:"rankings"`
}
