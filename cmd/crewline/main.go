package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/crewline/crewline/internal/output"
	"github.com/crewline/crewline/pkg/config"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func main() {
	app := &cli.App{
		Name:    "crewline",
		Usage:   "Repository evolution analysis: hotspot files and contributor rankings",
		Version: version,
		Description: `Crewline fuses repository evolution data (commit logs, CodeMaat-style
CSV exports, complexity reports) into a ranked hotspot-file table and a
weighted developer ranking across ten activity signals.`,
		Flags: globalFlags(),
		Commands: []*cli.Command{
			hotspotsCmd(),
			rankCmd(),
			extractCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// globalFlags returns the flags shared by every command.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to config file (TOML, YAML, or JSON)",
			EnvVars: []string{"CREWLINE_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json, markdown",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to file",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Print decode warnings and reconciliation details",
		},
	}
}

// getResultsDir returns the results directory from positional args,
// defaulting to the current directory.
func getResultsDir(c *cli.Context) string {
	if c.Args().Len() > 0 {
		return c.Args().First()
	}
	return "."
}

// loadConfig resolves the effective config: an explicit --config file must
// load cleanly, otherwise the standard search locations apply.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(), nil
}

// newFormatter builds the output formatter from flags and config. The
// --format flag wins over the config file when both are set.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	format := c.String("format")
	if format == "" {
		format = cfg.Output.Format
	}
	return output.NewFormatter(output.ParseFormat(format), c.String("output"), cfg.Output.Color)
}

func verbose(c *cli.Context, cfg *config.Config) bool {
	return c.Bool("verbose") || cfg.Output.Verbose
}
