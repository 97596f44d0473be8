package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vijay-prabhu/searchlens/internal/categorizer"
	"github.com/vijay-prabhu/searchlens/internal/database"
	"github.com/vijay-prabhu/searchlens/internal/metrics"
)

const sampleInput = `[
  {
    "title": "VC funding surges in AI",
    "content": "Venture capital investment in AI startups showed strong growth in 2025, with funding rounds reaching record highs.",
    "date": "2025-06-01",
    "url": "https://techcrunch.com/ai-funding"
  },
  {"title": "Recipe for bread", "content": "flour, yeast, water"},
  42
]`

// resetFlags restores every flag to its default so commands can be run
// repeatedly in one process
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// setupEnv writes a config pointing at a temp database and returns its path
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := "[database]\npath = \"" + filepath.ToSlash(filepath.Join(dir, "test.db")) + "\"\n\n[logging]\nlevel = \"error\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"1m", 30 * 24 * time.Hour, false},
		{"12h", 12 * time.Hour, false},
		{"-3d", 0, true},
		{"d", 0, true},
		{"5y", 0, true},
		{"xd", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDuration(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDuration(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestReadItems(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "items.yaml")
	if err := os.WriteFile(yamlPath, []byte("- title: One\n- title: Two\n"), 0644); err != nil {
		t.Fatal(err)
	}

	items, err := readItems(yamlPath, "", nil)
	if err != nil {
		t.Fatalf("readItems(yaml) error = %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len(yaml items) = %d, want 2", len(items))
	}

	items, err = readItems("-", "json", strings.NewReader(sampleInput))
	if err != nil {
		t.Fatalf("readItems(stdin) error = %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len(stdin items) = %d, want 2", len(items))
	}

	if _, err := readItems(filepath.Join(dir, "missing.json"), "", nil); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := readItems("-", "csv", strings.NewReader("")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestPresentable(t *testing.T) {
	items := []categorizer.Assessment{
		{Title: "good", Metrics: metrics.Bundle{Relevance: 80, Accuracy: 80, Credibility: 75, Overall: 78}},
		{Title: "weak", Metrics: metrics.Bundle{Relevance: 30, Accuracy: 80, Credibility: 75, Overall: 60}},
	}
	got := presentable(items, 70)
	if len(got) != 1 || got[0].Title != "good" {
		t.Errorf("presentable = %+v, want only good", got)
	}
}

func TestCategorizeCommand(t *testing.T) {
	cfgPath := setupEnv(t)

	out, err := execute(t, sampleInput,
		"categorize", "AI investment trends 2025", "-c", cfgPath, "-o", "json",
		"--now", "2025-06-10T12:00:00Z", "--save", "--cache")
	if err != nil {
		t.Fatalf("categorize error = %v", err)
	}

	var results []categorizer.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].ID != "investment-trends" || results[1].ID != "other-results" {
		t.Errorf("result ids = %s, %s", results[0].ID, results[1].ID)
	}

	out, err = execute(t, "", "runs", "list", "-c", cfgPath, "-o", "json")
	if err != nil {
		t.Fatalf("runs list error = %v", err)
	}
	var runs []database.Run
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("invalid runs JSON: %v\n%s", err, out)
	}
	if len(runs) != 1 || runs[0].Query != "AI investment trends 2025" {
		t.Fatalf("runs = %+v", runs)
	}

	out, err = execute(t, "", "runs", "show", runs[0].ID, "-c", cfgPath)
	if err != nil {
		t.Fatalf("runs show error = %v", err)
	}
	if !strings.Contains(out, "Investment Trends") {
		t.Errorf("runs show missing category:\n%s", out)
	}

	out, err = execute(t, "", "runs", "export", "-c", cfgPath, "--format", "csv")
	if err != nil {
		t.Fatalf("runs export error = %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 3 {
		t.Errorf("export lines = %d, want header + 2 rows:\n%s", len(lines), out)
	}

	out, err = execute(t, "", "stats", "-c", cfgPath, "-o", "json")
	if err != nil {
		t.Fatalf("stats error = %v", err)
	}
	var stats database.Stats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalRuns != 1 || stats.CachedMetrics != 2 {
		t.Errorf("stats = %+v, want 1 run and 2 cached bundles", stats)
	}

	if _, err := execute(t, "", "runs", "delete", runs[0].ID, "-c", cfgPath); err != nil {
		t.Fatalf("runs delete error = %v", err)
	}
	if _, err := execute(t, "", "runs", "show", runs[0].ID, "-c", cfgPath); err == nil {
		t.Error("expected error showing deleted run")
	}

	out, err = execute(t, "", "cache", "prune", "-c", cfgPath, "--older", "1d")
	if err != nil {
		t.Fatalf("cache prune error = %v", err)
	}
	if !strings.Contains(out, "Pruned 0") {
		t.Errorf("cache prune = %q, want nothing pruned", out)
	}
}

func TestCategorizeCommand_Errors(t *testing.T) {
	cfgPath := setupEnv(t)
	tests := []struct {
		name string
		args []string
	}{
		{"no query", []string{"categorize", "-c", cfgPath}},
		{"bad now", []string{"categorize", "q", "-c", cfgPath, "--now", "tomorrow"}},
		{"bad format", []string{"categorize", "q", "-c", cfgPath, "--format", "csv"}},
		{"bad output", []string{"categorize", "q", "-c", cfgPath, "-o", "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, sampleInput, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCategorizeCommand_EmptyInput(t *testing.T) {
	cfgPath := setupEnv(t)
	out, err := execute(t, `{"not": "a list"}`, "categorize", "anything", "-c", cfgPath, "-o", "json")
	if err != nil {
		t.Fatalf("categorize error = %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("output = %q, want []", out)
	}
}

func TestScoreCommand(t *testing.T) {
	cfgPath := setupEnv(t)
	out, err := execute(t, sampleInput, "score", "AI investment trends 2025", "-c", cfgPath, "-o", "json")
	if err != nil {
		t.Fatalf("score error = %v", err)
	}
	var scored []categorizer.Assessment
	if err := json.Unmarshal([]byte(out), &scored); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(scored) != 2 {
		t.Errorf("len(scored) = %d, want 2", len(scored))
	}
}

func TestScoreCommand_Filters(t *testing.T) {
	cfgPath := setupEnv(t)
	f, err := os.OpenFile(cfgPath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("\n[filters]\ntitle_blocklist = [\"recipe\"]\n")
	f.Close()

	out, err := execute(t, sampleInput, "score", "AI investment trends 2025", "-c", cfgPath, "-o", "json")
	if err != nil {
		t.Fatalf("score error = %v", err)
	}
	var scored []categorizer.Assessment
	if err := json.Unmarshal([]byte(out), &scored); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(scored) != 1 || scored[0].Title != "VC funding surges in AI" {
		t.Errorf("scored = %+v, want only the funding item", scored)
	}
}

func TestClassifyCommand(t *testing.T) {
	cfgPath := setupEnv(t)
	out, err := execute(t, "", "classify", "AI investment trends 2025", "-c", cfgPath)
	if err != nil {
		t.Fatalf("classify error = %v", err)
	}
	if !strings.Contains(out, "financial, business, technical") {
		t.Errorf("classify output missing contexts:\n%s", out)
	}
}

func TestCategoriesCommand(t *testing.T) {
	cfgPath := setupEnv(t)
	out, err := execute(t, "", "categories", "-c", cfgPath, "-o", "json")
	if err != nil {
		t.Fatalf("categories error = %v", err)
	}
	if !strings.Contains(out, `"other-results"`) {
		t.Errorf("categories output missing fallback:\n%s", out)
	}
}

func TestConfigCommands(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := execute(t, "", "config", "show", "-c", cfgPath)
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out, "No config file found") {
		t.Errorf("config show = %q", out)
	}

	// the default database path lives under the home directory
	t.Setenv("HOME", t.TempDir())
	if _, err := execute(t, "", "config", "init", "-c", cfgPath); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	out, err = execute(t, "", "config", "init", "-c", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "already exists") {
		t.Errorf("second init = %q", out)
	}

	out, err = execute(t, "", "config", "show", "--effective", "-c", cfgPath)
	if err != nil {
		t.Fatalf("config show --effective error = %v", err)
	}
	if !strings.Contains(out, "max_categories = 6") {
		t.Errorf("effective config missing max_categories:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersionInfo("1.2.3", "abc", "today")
	defer SetVersionInfo("dev", "unknown", "unknown")

	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "searchlens 1.2.3") {
		t.Errorf("version = %q", out)
	}
}

func TestTerminal_SummaryLine(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	if term.IsTerminal {
		t.Fatal("buffer reported as terminal")
	}

	r := categorizer.Report{FirstPass: 2, Fallback: 1, Skipped: 1, Duration: time.Millisecond}
	got := term.SummaryLine(r, 2)
	want := "✓ 3 items in 2 categories, 1 in fallback, 1 skipped (1ms)\n"
	if got != want {
		t.Errorf("SummaryLine = %q, want %q", got, want)
	}

	term.Summary(r, 2)
	if buf.Len() != 0 {
		t.Errorf("Summary wrote %q to a non-terminal", buf.String())
	}
}
