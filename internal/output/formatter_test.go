package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"text", FormatText},
		{"", FormatText},
		{"bogus", FormatText},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTableRenderText(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable("Hotspots", []string{"File", "Score"}, [][]string{
		{"core/engine.go", "192.00"},
		{"api/server.go", "80.00"},
	}, nil, nil)

	if err := table.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Hotspots", "core/engine.go", "192.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable("Ranking", []string{"Rank", "Developer"}, [][]string{
		{"1", "Alice"},
	}, nil, nil)

	if err := table.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "## Ranking") {
		t.Errorf("missing title header:\n%s", out)
	}
	if !strings.Contains(out, "| Rank | Developer |") {
		t.Errorf("missing header row:\n%s", out)
	}
	if !strings.Contains(out, "| 1 | Alice |") {
		t.Errorf("missing data row:\n%s", out)
	}
}

func TestTableRenderDataPrefersWrappedData(t *testing.T) {
	payload := map[string]int{"total": 3}
	table := NewTable("", []string{"a"}, nil, nil, payload)

	got, err := json.Marshal(table.RenderData())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(got) != `{"total":3}` {
		t.Errorf("RenderData = %s", got)
	}
}

func TestSectionRenderText(t *testing.T) {
	var buf bytes.Buffer
	s := &Section{
		Title:   "Rank #1: Alice",
		Content: "Overall Score: 75.00/100",
		Sections: []Section{
			{Title: "Metrics", Content: "Commits: 100"},
		},
	}

	if err := s.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Rank #1: Alice") || !strings.Contains(out, "Commits: 100") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestFormatterJSONOutput(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/out.json"

	f, err := NewFormatter(FormatJSON, path, true)
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}
	if f.Colored() {
		t.Error("file output must disable color")
	}
	if err := f.Output(map[string]string{"status": "ok"}); err != nil {
		t.Fatalf("Output: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestRiskColorPassthroughForUnknown(t *testing.T) {
	if got := RiskColor("WEIRD", "x"); got != "x" {
		t.Errorf("RiskColor = %q, want passthrough", got)
	}
}
