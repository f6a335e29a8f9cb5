package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/crewline/crewline/internal/output"
	"github.com/crewline/crewline/internal/report"
	"github.com/crewline/crewline/pkg/analyzer/ranking"
	"github.com/crewline/crewline/pkg/models"
)

// weightFlags maps each --weight-* flag to a setter on the weight vector.
var weightFlags = []struct {
	name  string
	usage string
	set   func(w *models.Weights, v float64)
}{
	{"weight-commits", "commit count signal weight", func(w *models.Weights, v float64) { w.Commits = v }},
	{"weight-churn", "line churn signal weight", func(w *models.Weights, v float64) { w.Churn = v }},
	{"weight-hotspot-work", "hotspot work signal weight", func(w *models.Weights, v float64) { w.HotspotWork = v }},
	{"weight-ownership", "ownership signal weight", func(w *models.Weights, v float64) { w.Ownership = v }},
	{"weight-complexity", "complexity-weighted churn signal weight", func(w *models.Weights, v float64) { w.Complexity = v }},
	{"weight-communication", "communication signal weight", func(w *models.Weights, v float64) { w.Communication = v }},
	{"weight-recency", "recency signal weight", func(w *models.Weights, v float64) { w.Recency = v }},
	{"weight-fragmentation", "fragmentation signal weight", func(w *models.Weights, v float64) { w.Fragmentation = v }},
	{"weight-coupling", "coupling signal weight", func(w *models.Weights, v float64) { w.Coupling = v }},
	{"weight-hotspot-commits", "hotspot commit count signal weight", func(w *models.Weights, v float64) { w.HotspotCommits = v }},
}

func rankCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:  "top",
			Usage: "Show top N developers in the summary table (0 = config default)",
		},
		&cli.BoolFlag{
			Name:  "detailed",
			Usage: "Include a detailed breakdown of the top developers",
		},
		&cli.StringFlag{
			Name:  "output-json",
			Usage: "Write the full ranking report to a JSON file",
		},
		&cli.StringFlag{
			Name:  "output-csv",
			Usage: "Write the flat per-developer table to a CSV file",
		},
	}
	for _, wf := range weightFlags {
		flags = append(flags, &cli.Float64Flag{Name: wf.name, Usage: wf.usage})
	}

	return &cli.Command{
		Name:      "rank",
		Usage:     "Rank developers by weighted contribution signals",
		ArgsUsage: "[results-dir]",
		Flags:     flags,
		Action:    runRankCmd,
	}
}

func runRankCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	weights := cfg.Ranking.Weights
	for _, wf := range weightFlags {
		if c.IsSet(wf.name) {
			wf.set(&weights, c.Float64(wf.name))
		}
	}

	bundle, err := loadBundle(c, cfg, formatter)
	if err != nil {
		return err
	}

	analysis, err := ranking.New(ranking.WithWeights(weights)).Analyze(bundle)
	if err != nil {
		return err
	}

	topN := c.Int("top")
	if topN <= 0 {
		topN = cfg.Ranking.TopN
	}
	rowsToShow := analysis.Rankings
	if topN > 0 && len(rowsToShow) > topN {
		rowsToShow = rowsToShow[:topN]
	}

	var rows [][]string
	for _, r := range rowsToShow {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.Rank),
			r.Developer,
			fmt.Sprintf("%.2f", r.WeightedScore),
			fmt.Sprintf("%d", r.Metrics.Commits),
			fmt.Sprintf("%d", r.Metrics.TotalChurn),
			fmt.Sprintf("%.2f", r.Metrics.HotspotScore),
			fmt.Sprintf("%.2f", r.Metrics.OwnershipScore),
			lastActive(r.Metrics.LastCommitDate),
		})
	}

	table := output.NewTable(
		fmt.Sprintf("Developer Ranking (Top %d)", topN),
		[]string{"Rank", "Developer", "Score", "Commits", "Churn", "Hotspot Work", "Ownership", "Last Active"},
		rows,
		[]string{
			fmt.Sprintf("Developers: %d", analysis.TotalDevelopers),
			"", "", "", "", "", "", "",
		},
		analysis,
	)

	var renderable output.Renderable = table
	if c.Bool("detailed") {
		renderable = &output.Report{
			Title:    fmt.Sprintf("Contributor Analysis: %s", analysis.Repository),
			Sections: []output.Renderable{table, detailSection(analysis, cfg.Ranking.DetailedN)},
			Data:     analysis,
		}
	}
	if err := formatter.Output(renderable); err != nil {
		return err
	}

	if path := c.String("output-json"); path != "" {
		if err := report.SaveFile(path, func(w io.Writer) error {
			return report.WriteRankingJSON(w, analysis)
		}); err != nil {
			return err
		}
	}
	if path := c.String("output-csv"); path != "" {
		if err := report.SaveFile(path, func(w io.Writer) error {
			return report.WriteRankingCSV(w, analysis)
		}); err != nil {
			return err
		}
	}
	return nil
}

// detailSection renders the per-developer breakdown: raw and normalized
// signals plus the top hotspot, owned-file and collaborator lists.
func detailSection(a *models.RankingAnalysis, n int) *output.Section {
	top := a.Rankings
	if n > 0 && len(top) > n {
		top = top[:n]
	}

	section := &output.Section{Title: fmt.Sprintf("Top %d Developers", len(top))}
	for _, r := range top {
		title := fmt.Sprintf("#%d %s", r.Rank, r.Developer)
		if r.Email != "" {
			title += fmt.Sprintf(" <%s>", r.Email)
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Weighted Score: %.2f\n", r.WeightedScore)
		fmt.Fprintf(&b, "Commits: %d (norm %.1f) | Churn: %d (norm %.1f)\n",
			r.Metrics.Commits, r.NormalizedScores.Commits,
			r.Metrics.TotalChurn, r.NormalizedScores.Churn)
		fmt.Fprintf(&b, "Hotspot Work: %.2f across %d files, %d hotspot commits (norm %.1f)\n",
			r.Metrics.HotspotScore, r.Metrics.HotspotFilesCount,
			r.Metrics.HotspotCommits, r.NormalizedScores.HotspotWork)
		fmt.Fprintf(&b, "Ownership: %.2f across %d files (norm %.1f)\n",
			r.Metrics.OwnershipScore, r.Metrics.FilesOwnedCount, r.NormalizedScores.Ownership)
		fmt.Fprintf(&b, "Complexity: %.2f (norm %.1f) | Communication: %.2f with %d collaborators (norm %.1f)\n",
			r.Metrics.ComplexityScore, r.NormalizedScores.Complexity,
			r.Metrics.CommunicationScore, r.Metrics.CollaboratorsCount, r.NormalizedScores.Communication)
		fmt.Fprintf(&b, "Recency: %.2f (norm %.1f) | Fragmentation: %.2f (norm %.1f) | Coupling: %.2f (norm %.1f)\n",
			r.Metrics.RecencyScore, r.NormalizedScores.Recency,
			r.Metrics.FragmentationScore, r.NormalizedScores.Fragmentation,
			r.Metrics.CouplingScore, r.NormalizedScores.Coupling)
		fmt.Fprintf(&b, "Last Active: %s\n", lastActive(r.Metrics.LastCommitDate))

		if len(r.TopHotspotFiles) > 0 {
			fmt.Fprintf(&b, "Top Hotspot Files: %s\n", strings.Join(r.TopHotspotFiles, ", "))
		}
		if len(r.TopOwnedFiles) > 0 {
			owned := make([]string, len(r.TopOwnedFiles))
			for i, f := range r.TopOwnedFiles {
				owned[i] = fmt.Sprintf("%s (%.0f%%)", f.Path, f.Ownership*100)
			}
			fmt.Fprintf(&b, "Top Owned Files: %s\n", strings.Join(owned, ", "))
		}
		if len(r.TopCollaborators) > 0 {
			collabs := make([]string, len(r.TopCollaborators))
			for i, cb := range r.TopCollaborators {
				collabs[i] = fmt.Sprintf("%s (%d shared, strength %d)", cb.Name, cb.SharedFiles, cb.Strength)
			}
			fmt.Fprintf(&b, "Collaborators: %s\n", strings.Join(collabs, ", "))
		}

		section.Sections = append(section.Sections, output.Section{
			Title:   title,
			Content: strings.TrimRight(b.String(), "\n"),
		})
	}
	return section
}

// lastActive formats a last-commit date as "N days ago".
func lastActive(t *time.Time) string {
	if t == nil {
		return "unknown"
	}
	days := int(time.Since(*t).Hours() / 24)
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}
