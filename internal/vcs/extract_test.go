package vcs

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/crewline/crewline/pkg/source"
)

func initGitRepo(t *testing.T, path string) *git.Repository {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("Failed to create repo dir: %v", err)
	}
	repo, err := git.PlainInit(path, false)
	if err != nil {
		t.Fatalf("Failed to init git repo: %v", err)
	}
	return repo
}

func writeFileAndCommit(t *testing.T, repo *git.Repository, repoPath, filename, content, message string, when time.Time) {
	t.Helper()

	filePath := filepath.Join(repoPath, filename)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", filename, err)
	}

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	if _, err := w.Add(filename); err != nil {
		t.Fatalf("Failed to add file %s: %v", filename, err)
	}

	_, err = w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  when,
		},
	})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
}

func TestExtractCommits(t *testing.T) {
	repoPath := filepath.Join(t.TempDir(), "repo")
	repo := initGitRepo(t, repoPath)

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	writeFileAndCommit(t, repo, repoPath, "a.go", "package a\n", "add a", base)
	writeFileAndCommit(t, repo, repoPath, "b.go", "package b\n", "add b", base.Add(time.Hour))

	commits, err := NewExtractor().Commits(context.Background(), repoPath)
	if err != nil {
		t.Fatalf("Commits: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("commits = %d, want 2", len(commits))
	}

	// Log iterates newest first.
	if commits[0].Message != "add b" || commits[1].Message != "add a" {
		t.Errorf("order = %q, %q", commits[0].Message, commits[1].Message)
	}
	c := commits[0]
	if c.AuthorName != "Test Author" || c.AuthorEmail != "test@example.com" {
		t.Errorf("author = %q <%q>", c.AuthorName, c.AuthorEmail)
	}
	if c.Hash == "" {
		t.Error("hash is empty")
	}
	if _, err := time.Parse(time.RFC3339, c.Date); err != nil {
		t.Errorf("date %q is not RFC3339: %v", c.Date, err)
	}
}

func TestExtractCommitsSince(t *testing.T) {
	repoPath := filepath.Join(t.TempDir(), "repo")
	repo := initGitRepo(t, repoPath)

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	writeFileAndCommit(t, repo, repoPath, "old.go", "package old\n", "old work", old)
	writeFileAndCommit(t, repo, repoPath, "new.go", "package new\n", "new work", recent)

	cutoff := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	commits, err := NewExtractor(WithSince(cutoff)).Commits(context.Background(), repoPath)
	if err != nil {
		t.Fatalf("Commits: %v", err)
	}
	if len(commits) != 1 || commits[0].Message != "new work" {
		t.Errorf("commits = %+v, want only the recent one", commits)
	}
}

func TestExtractCommitsMissingRepo(t *testing.T) {
	_, err := NewExtractor().Commits(context.Background(), t.TempDir())
	if err == nil {
		t.Fatal("expected error for non-repository path")
	}
}

func TestWriteCommitsJSONRoundTrip(t *testing.T) {
	commits := []source.Commit{
		{Hash: "abc", AuthorName: "Alice", AuthorEmail: "alice@example.com", Date: "2025-05-01T10:00:00Z", Message: "fix"},
	}

	var buf bytes.Buffer
	if err := WriteCommitsJSON(&buf, commits); err != nil {
		t.Fatalf("WriteCommitsJSON: %v", err)
	}

	var envelope struct {
		Commits []source.Commit `json:"commits"`
	}
	if err := json.Unmarshal(buf.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(envelope.Commits) != 1 || envelope.Commits[0].AuthorName != "Alice" {
		t.Errorf("round trip = %+v", envelope.Commits)
	}
}
