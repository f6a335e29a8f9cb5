package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/crewline/crewline/internal/output"
	"github.com/crewline/crewline/internal/progress"
	"github.com/crewline/crewline/internal/report"
	"github.com/crewline/crewline/pkg/analyzer/filemetrics"
	"github.com/crewline/crewline/pkg/analyzer/hotspot"
	"github.com/crewline/crewline/pkg/config"
	"github.com/crewline/crewline/pkg/models"
	"github.com/crewline/crewline/pkg/source"
)

func hotspotsCmd() *cli.Command {
	return &cli.Command{
		Name:      "hotspots",
		Aliases:   []string{"hs"},
		Usage:     "Rank files by combined change frequency and complexity",
		ArgsUsage: "[results-dir]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "top",
				Usage: "Show top N files (0 = config default)",
			},
			&cli.StringFlag{
				Name:  "output-json",
				Usage: "Write the full hotspot report to a JSON file",
			},
			&cli.StringFlag{
				Name:  "output-csv",
				Usage: "Write the hotspot table to a CSV file",
			},
		},
		Action: runHotspotsCmd,
	}
}

// loadBundle decodes all analysis sources from the results directory,
// surfacing decode warnings and missing files when verbose.
func loadBundle(c *cli.Context, cfg *config.Config, formatter *output.Formatter) (*source.Bundle, error) {
	dir := getResultsDir(c)
	v := verbose(c, cfg)

	var warnf source.WarnFunc
	if v {
		warnf = func(w source.Warning) {
			formatter.Warning("%s", w)
		}
	}

	spinner := progress.NewSpinner("Decoding analysis sources...")
	bundle, err := source.NewLoader(dir, source.WithWarnFunc(warnf)).Load(c.Context)
	if err != nil {
		spinner.FinishError(err)
		return nil, fmt.Errorf("loading %s: %w", dir, err)
	}
	spinner.FinishSuccess()

	if v {
		for _, name := range bundle.Missing {
			formatter.Warning("source %s not found, signals stay zero", name)
		}
	}
	return bundle, nil
}

func runHotspotsCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	bundle, err := loadBundle(c, cfg, formatter)
	if err != nil {
		return err
	}

	analysis := buildHotspots(bundle)
	if len(analysis.Files) == 0 {
		formatter.Warning("no files had both revision and complexity data; hotspot table is empty")
	}

	topN := c.Int("top")
	if topN <= 0 {
		topN = cfg.Hotspots.TopN
	}
	filesToShow := analysis.Files
	if topN > 0 && len(filesToShow) > topN {
		filesToShow = filesToShow[:topN]
	}

	var rows [][]string
	for _, f := range filesToShow {
		risk := string(f.RiskLevel)
		if formatter.Colored() {
			risk = output.RiskColor(string(f.RiskLevel), risk)
		}
		rows = append(rows, []string{
			f.Path,
			fmt.Sprintf("%.2f", f.HotspotScore),
			risk,
			fmt.Sprintf("%d", f.Revisions),
			fmt.Sprintf("%.1f", f.AvgComplexity),
			fmt.Sprintf("%d", f.FunctionCount),
		})
	}

	table := output.NewTable(
		fmt.Sprintf("Hotspot Files (Top %d)", topN),
		[]string{"File", "Score", "Risk", "Revisions", "Avg Complexity", "Functions"},
		rows,
		[]string{
			fmt.Sprintf("Files: %d", analysis.Summary.TotalFiles),
			fmt.Sprintf("Max: %.2f", analysis.Summary.MaxScore),
			fmt.Sprintf("Critical: %d / High: %d", analysis.Summary.CriticalCount, analysis.Summary.HighCount),
			fmt.Sprintf("Unmatched: %d", analysis.UnmatchedFiles),
			fmt.Sprintf("P90: %.2f", analysis.Summary.P90Score),
			"",
		},
		analysis,
	)
	if err := formatter.Output(table); err != nil {
		return err
	}

	if path := c.String("output-json"); path != "" {
		if err := report.SaveFile(path, func(w io.Writer) error {
			return report.WriteHotspotsJSON(w, analysis)
		}); err != nil {
			return err
		}
	}
	if path := c.String("output-csv"); path != "" {
		if err := report.SaveFile(path, func(w io.Writer) error {
			return report.WriteHotspotsCSV(w, analysis)
		}); err != nil {
			return err
		}
	}
	return nil
}

// buildHotspots computes the hotspot table in-process when revision and
// complexity inputs are present, falling back to a precomputed table shipped
// with the results. Missing sources degrade to an empty table, never an
// error.
func buildHotspots(b *source.Bundle) *models.HotspotAnalysis {
	if len(b.Hotspots) > 0 && (len(b.Revisions) == 0 || len(b.Functions) == 0) {
		analysis := &models.HotspotAnalysis{
			Repository:  b.Repository,
			GeneratedAt: time.Now().UTC(),
			Files:       b.Hotspots,
		}
		sort.SliceStable(analysis.Files, func(i, j int) bool {
			return analysis.Files[i].HotspotScore > analysis.Files[j].HotspotScore
		})
		analysis.CalculateSummary()
		return analysis
	}

	spinner := progress.NewSpinner("Reconciling file paths...")
	store := filemetrics.FromBundle(b, filemetrics.WithProgress(func(int) {
		spinner.Tick()
	}))
	analysis := hotspot.New(hotspot.WithRepository(b.Repository)).Analyze(store)
	spinner.FinishSuccess()
	return analysis
}
