package source

import (
	"encoding/json"
	"os"
	"time"
)

// commit date layouts seen in the wild: RFC3339 from git plumbing, plus
// naive and space-separated variants from older export scripts.
var commitDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02",
}

func parseCommitDate(s string) (time.Time, bool) {
	for _, layout := range commitDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (l *Loader) loadCommits() ([]Commit, *sourceResult) {
	res := &sourceResult{name: "commits"}
	path, ok := l.findFile("commits.json")
	if !ok {
		res.missing = true
		return nil, res
	}

	data, err := os.ReadFile(path)
	if err != nil {
		res.missing = true
		res.warn("", err.Error())
		return nil, res
	}

	var file struct {
		Commits []Commit `json:"commits"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		res.missing = true
		res.warn("", "invalid JSON: "+err.Error())
		return nil, res
	}

	for i := range file.Commits {
		c := &file.Commits[i]
		if c.Date == "" {
			continue
		}
		ts, ok := parseCommitDate(c.Date)
		if !ok {
			// The commit still counts; only recency is lost.
			res.warn(c.Hash, "unparseable date "+c.Date)
			continue
		}
		c.Timestamp = ts
	}

	return file.Commits, res
}

func (l *Loader) loadFunctions() ([]FunctionRow, *sourceResult) {
	res := &sourceResult{name: "complexity"}
	path, ok := l.findFile("complexity.json")
	if !ok {
		res.missing = true
		return nil, res
	}

	data, err := os.ReadFile(path)
	if err != nil {
		res.missing = true
		res.warn("", err.Error())
		return nil, res
	}

	var file struct {
		Analysis struct {
			Functions []FunctionRow `json:"functions"`
		} `json:"analysis"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		res.missing = true
		res.warn("", "invalid JSON: "+err.Error())
		return nil, res
	}

	return file.Analysis.Functions, res
}
