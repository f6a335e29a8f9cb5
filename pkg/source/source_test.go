package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadFullBundle(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "commits.json", `{"commits": [
		{"hash": "abc123", "author_name": "Alice", "author_email": "alice@example.com", "date": "2025-05-20T10:00:00Z", "message": "fix engine"},
		{"hash": "def456", "author_name": "Bob", "author_email": "", "date": "2025-01-02T09:30:00+01:00", "message": "add api"}
	]}`)
	writeFile(t, dir, "myrepo_code-analysis_revisions.csv", "entity,n-revs\nsrc/engine.go,60\nsrc/api.go,12\n")
	writeFile(t, dir, "myrepo_code-analysis_entity_ownership.csv", "entity,author,added,deleted\nsrc/engine.go,Alice,100,40\n")
	writeFile(t, dir, "myrepo_code-analysis_main_dev.csv", "entity,main-dev,added,total-added,ownership\nsrc/engine.go,Alice,100,140,0.71\n")
	writeFile(t, dir, "myrepo_code-analysis_communication.csv", "author,peer,shared,strength\nAlice,Bob,5,40\n")
	writeFile(t, dir, "myrepo_code-analysis_fragmentation.csv", "entity,fractal-value\nsrc/engine.go,0.42\n")
	writeFile(t, dir, "myrepo_code-analysis_soc.csv", "entity,soc\nsrc/engine.go,310\n")
	writeFile(t, dir, "complexity.json", `{"analysis": {"functions": [
		{"file": "src/engine.go", "cyclomatic_complexity": 16, "lines_of_code": 80}
	]}}`)

	l := NewLoader(dir, WithRepository("myrepo"))
	b, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "myrepo", b.Repository)
	require.Len(t, b.Commits, 2)
	assert.Equal(t, "Alice", b.Commits[0].AuthorName)
	assert.False(t, b.Commits[0].Timestamp.IsZero())
	require.Len(t, b.Revisions, 2)
	assert.Equal(t, 60, b.Revisions[0].Revisions)
	require.Len(t, b.Ownership, 1)
	assert.Equal(t, 100, b.Ownership[0].Added)
	require.Len(t, b.MainDevs, 1)
	assert.InDelta(t, 0.71, b.MainDevs[0].Ownership, 1e-9)
	require.Len(t, b.Communication, 1)
	assert.Equal(t, 40, b.Communication[0].Strength)
	require.Len(t, b.Fragmentation, 1)
	require.Len(t, b.Coupling, 1)
	require.Len(t, b.Functions, 1)
	assert.Equal(t, 16, b.Functions[0].Cyclomatic)

	// Only the optional precomputed hotspot table is absent.
	assert.Equal(t, []string{"hotspots"}, b.Missing)
}

func TestLoadBareFilenameFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "revisions.csv", "entity,n-revs\nmain.go,5\n")

	b, err := NewLoader(dir, WithRepository("other")).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, b.Revisions, 1)
	assert.Equal(t, "main.go", b.Revisions[0].Entity)
}

func TestLoadMissingSourcesReported(t *testing.T) {
	dir := t.TempDir()

	b, err := NewLoader(dir).Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, b.Commits)
	assert.Empty(t, b.Revisions)
	assert.Len(t, b.Missing, 9)
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "revisions.csv", "entity,n-revs\ngood.go,10\nbad.go,not-a-number\nshort-row\nalso-good.go,3\n")

	var warnings []Warning
	l := NewLoader(dir, WithWarnFunc(func(w Warning) {
		warnings = append(warnings, w)
	}))
	b, err := l.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, b.Revisions, 2)
	assert.Equal(t, "good.go", b.Revisions[0].Entity)
	assert.Equal(t, "also-good.go", b.Revisions[1].Entity)

	var revisionWarnings int
	for _, w := range warnings {
		if w.Source == "revisions" {
			revisionWarnings++
		}
	}
	assert.Equal(t, 2, revisionWarnings)
}

func TestLoadBadHeaderTreatedAsMissing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "soc.csv", "wrong,columns\na,b\n")

	b, err := NewLoader(dir).Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, b.Coupling)
	assert.Contains(t, b.Missing, "soc")
}

func TestLoadUnparseableCommitDate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "commits.json", `{"commits": [
		{"hash": "abc", "author_name": "Alice", "date": "yesterday-ish", "message": "x"}
	]}`)

	var warnings []Warning
	b, err := NewLoader(dir, WithWarnFunc(func(w Warning) { warnings = append(warnings, w) })).Load(context.Background())
	require.NoError(t, err)

	// The commit survives, only its timestamp is lost.
	require.Len(t, b.Commits, 1)
	assert.True(t, b.Commits[0].Timestamp.IsZero())
	require.NotEmpty(t, warnings)
	assert.Equal(t, "commits", warnings[0].Source)
}

func TestLoadPrecomputedHotspots(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "demo_hotspots.csv",
		"file,hotspot_score,risk_level,revisions,avg_complexity\nsrc/engine.go,192.0,CRITICAL,60,16.0\n")

	b, err := NewLoader(dir, WithRepository("demo")).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, b.Hotspots, 1)
	assert.Equal(t, "src/engine.go", b.Hotspots[0].Path)
	assert.InDelta(t, 192.0, b.Hotspots[0].HotspotScore, 1e-9)
}

func TestLoadInvalidJSONTreatedAsMissing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "complexity.json", "{not json")

	b, err := NewLoader(dir).Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, b.Functions)
	assert.Contains(t, b.Missing, "complexity")
}

func TestLoadCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(t.TempDir()).Load(ctx)
	assert.Error(t, err)
}
