package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/crewline/crewline/internal/progress"
	"github.com/crewline/crewline/internal/report"
	"github.com/crewline/crewline/internal/vcs"
)

func extractCmd() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract commit history from a git repository into commits.json",
		ArgsUsage: "[repo-path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "since",
				Usage: "Only include commits after this date (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "out",
				Value: "commits.json",
				Usage: "Destination file",
			},
		},
		Action: runExtractCmd,
	}
}

func runExtractCmd(c *cli.Context) error {
	repoPath := getResultsDir(c)
	outPath := c.String("out")

	var opts []vcs.Option
	if since := c.String("since"); since != "" {
		t, err := time.Parse("2006-01-02", since)
		if err != nil {
			return fmt.Errorf("invalid --since date %q: %w", since, err)
		}
		opts = append(opts, vcs.WithSince(t))
	}

	spinner := progress.NewSpinner("Extracting commit history...")
	opts = append(opts, vcs.WithProgress(func(int) {
		spinner.Tick()
	}))

	commits, err := vcs.NewExtractor(opts...).Commits(c.Context, repoPath)
	if err != nil {
		spinner.FinishError(err)
		return fmt.Errorf("extracting commits (is %s a git repository?): %w", repoPath, err)
	}
	spinner.FinishSuccess()

	if err := report.SaveFile(outPath, func(w io.Writer) error {
		return vcs.WriteCommitsJSON(w, commits)
	}); err != nil {
		return err
	}

	color.Green("Extracted %d commits to %s", len(commits), outPath)
	return nil
}
