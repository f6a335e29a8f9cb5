// Package vcs harvests commit history from a git repository into the
// commits.json shape the ranking pipeline consumes.
package vcs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/crewline/crewline/pkg/source"
)

// Extractor walks a repository's commit history.
type Extractor struct {
	since      *time.Time
	onProgress func(count int)
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSince limits extraction to commits after the given time.
func WithSince(t time.Time) Option {
	return func(e *Extractor) {
		e.since = &t
	}
}

// WithProgress registers a callback invoked after every extracted commit.
func WithProgress(fn func(count int)) Option {
	return func(e *Extractor) {
		e.onProgress = fn
	}
}

// NewExtractor creates a new extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Commits returns the commit log of the repository at path, newest first,
// in the record shape commits.json carries. The .git directory is detected
// in parent directories the way git itself does.
func (e *Extractor) Commits(ctx context.Context, path string) ([]source.Commit, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository %s: %w", path, err)
	}

	logOpts := &git.LogOptions{}
	if e.since != nil {
		logOpts.Since = e.since
	}
	iter, err := repo.Log(logOpts)
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	defer iter.Close()

	var commits []source.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		commits = append(commits, source.Commit{
			Hash:        c.Hash.String(),
			AuthorName:  c.Author.Name,
			AuthorEmail: c.Author.Email,
			Date:        c.Author.When.Format(time.RFC3339),
			Message:     strings.TrimSpace(c.Message),
			Timestamp:   c.Author.When,
		})
		if e.onProgress != nil {
			e.onProgress(len(commits))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

// WriteCommitsJSON writes commits in the {"commits": [...]} envelope the
// loader reads back.
func WriteCommitsJSON(w io.Writer, commits []source.Commit) error {
	envelope := struct {
		Commits []source.Commit `json:"commits"`
	}{Commits: commits}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(envelope)
}
