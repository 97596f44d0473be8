package categorizer

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/vijay-prabhu/searchlens/internal/category"
	"github.com/vijay-prabhu/searchlens/internal/content"
	"github.com/vijay-prabhu/searchlens/internal/metrics"
	"github.com/vijay-prabhu/searchlens/internal/querycontext"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

const aiQuery = "AI investment trends 2025"

func aiItem() content.Item {
	return content.Item{
		Title: "VC funding surges in AI",
		Body:  "Venture capital investment in AI startups showed strong growth in 2025, with funding rounds reaching record highs.",
		Date:  "2025-06-01",
	}
}

func breadItem() content.Item {
	return content.Item{Title: "Recipe for bread", Body: "flour, yeast, water"}
}

func newTestCategorizer(t *testing.T, mutate func(*Settings)) *Categorizer {
	t.Helper()
	s := DefaultSettings()
	s.Workers = 4
	if mutate != nil {
		mutate(&s)
	}
	c, err := New(category.Default(), s, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func findResult(results []Result, id string) *Result {
	for i := range results {
		if results[i].ID == id {
			return &results[i]
		}
	}
	return nil
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(nil, DefaultSettings(), nil); !errors.Is(err, ErrNoRegistry) {
		t.Errorf("New(nil) error = %v, want ErrNoRegistry", err)
	}

	s := DefaultSettings()
	s.Thresholds.SecondPass = 0.9
	s.MaxCategories = 0
	if _, err := New(category.Default(), s, nil); err == nil {
		t.Error("New() expected error for invalid settings")
	}
}

func TestCategorize_Example(t *testing.T) {
	c := newTestCategorizer(t, nil)
	results, report := c.Run([]content.Item{aiItem(), breadItem()}, aiQuery, Options{Now: testNow})

	if len(results) > 6 {
		t.Fatalf("len(results) = %d, want <= 6", len(results))
	}

	invest := findResult(results, category.IDInvestmentTrends)
	if invest == nil {
		t.Fatalf("no %s category in results", category.IDInvestmentTrends)
	}
	if invest.Priority != 0 {
		t.Errorf("Priority = %d, want 0", invest.Priority)
	}
	if len(invest.Content) != 1 || invest.Content[0].Title != aiItem().Title {
		t.Fatalf("investment content = %+v, want the AI item", invest.Content)
	}
	ai := invest.Content[0]
	if ai.Bundle().Relevance < metrics.DisplayThreshold {
		t.Errorf("AI relevance = %d, want >= %d", ai.Bundle().Relevance, metrics.DisplayThreshold)
	}
	if ai.Affinity != 95 {
		t.Errorf("AI affinity = %d, want 95", ai.Affinity)
	}

	other := findResult(results, category.IDOther)
	if other == nil || len(other.Content) != 1 {
		t.Fatalf("fallback bucket = %+v, want the bread item", other)
	}
	bread := other.Content[0]
	if bread.Affinity != 60 {
		t.Errorf("bread affinity = %d, want 60", bread.Affinity)
	}
	if bread.Bundle().Recency != metrics.NeutralRecency {
		t.Errorf("bread recency = %d, want %d", bread.Bundle().Recency, metrics.NeutralRecency)
	}

	if findResult(results, category.IDAll) != nil {
		t.Error("catch-all bucket present without IncludeCatchAll")
	}
	if report.FirstPass != 1 || report.Fallback != 1 {
		t.Errorf("report first_pass=%d fallback=%d, want 1 and 1", report.FirstPass, report.Fallback)
	}
	if !report.Business {
		t.Error("report.Business = false, want true")
	}
}

func TestCategorize_Empty(t *testing.T) {
	c := newTestCategorizer(t, nil)

	tests := []struct {
		name  string
		items []content.Item
	}{
		{"nil", nil},
		{"empty", []content.Item{}},
		{"no extractable text", []content.Item{{URL: "https://example.com"}, {Title: "  "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := c.Categorize(tt.items, "x", Options{Now: testNow})
			if results == nil || len(results) != 0 {
				t.Fatalf("Categorize() = %v, want empty non-nil slice", results)
			}
			data, _ := json.Marshal(results)
			if string(data) != "[]" {
				t.Errorf("json = %s, want []", data)
			}
		})
	}

	_, report := c.Run([]content.Item{{Title: ""}, aiItem()}, aiQuery, Options{Now: testNow})
	if report.Skipped != 1 || report.Input != 2 {
		t.Errorf("report input=%d skipped=%d, want 2 and 1", report.Input, report.Skipped)
	}
}

func TestRun_Stages(t *testing.T) {
	c := newTestCategorizer(t, nil)
	_, report := c.Run([]content.Item{aiItem()}, aiQuery, Options{Now: testNow})

	want := []Stage{Initialized, FirstPass, SecondPass, Deduplicated, Capped, Sorted}
	if !reflect.DeepEqual(report.Stages, want) {
		t.Errorf("Stages = %v, want %v", report.Stages, want)
	}
	if !report.Stages[len(report.Stages)-1].Terminal() {
		t.Error("last stage is not terminal")
	}
}

func TestCategorize_DuplicateURL(t *testing.T) {
	strong := aiItem()
	strong.URL = "https://example.com/story"
	weak := content.Item{Title: "Short note", Body: "Something about capital.", URL: "https://www.example.com/story/"}

	tests := []struct {
		name  string
		items []content.Item
	}{
		{"strong first", []content.Item{strong, weak}},
		{"weak first", []content.Item{weak, strong}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCategorizer(t, nil)
			results, report := c.Run(tt.items, aiQuery, Options{Now: testNow})

			total := 0
			for _, r := range results {
				total += len(r.Content)
			}
			if total != 1 {
				t.Fatalf("items across results = %d, want 1", total)
			}
			invest := findResult(results, category.IDInvestmentTrends)
			if invest == nil || invest.Content[0].Title != strong.Title {
				t.Errorf("surviving item is not the higher-scoring one: %+v", results)
			}
			if report.Duplicates != 1 {
				t.Errorf("Duplicates = %d, want 1", report.Duplicates)
			}
		})
	}
}

func capItems() []content.Item {
	titles := []string{
		"tutorial beginner walkthrough learn",
		"retail shoppers e-commerce loyalty",
		"solar renewable emissions grid",
		"ransomware malware phishing attack",
		"inflation recession unemployment jobs",
		"regulation legislation antitrust court",
		"patient treatment clinical care",
		"researchers experiment journal hypothesis",
	}
	items := make([]content.Item, len(titles))
	for i, title := range titles {
		items[i] = content.Item{Title: title}
	}
	return items
}

func TestCategorize_Cap(t *testing.T) {
	c := newTestCategorizer(t, nil)
	results, report := c.Run(capItems(), "", Options{Now: testNow})

	if len(results) != 6 {
		t.Fatalf("len(results) = %d, want 6", len(results))
	}
	wantIDs := []string{
		"research-studies", "health-medicine", "policy-regulation",
		"economic-outlook", "cybersecurity", "energy-climate",
	}
	for i, id := range wantIDs {
		if results[i].ID != id {
			t.Errorf("results[%d] = %s, want %s", i, results[i].ID, id)
		}
	}
	if report.SecondPass != 8 {
		t.Errorf("SecondPass = %d, want 8", report.SecondPass)
	}
	if report.DroppedCategories != 2 || report.DroppedItems != 2 {
		t.Errorf("dropped categories=%d items=%d, want 2 and 2", report.DroppedCategories, report.DroppedItems)
	}
}

func TestCategorize_MaxCategoriesSetting(t *testing.T) {
	c := newTestCategorizer(t, func(s *Settings) { s.MaxCategories = 3 })
	if got := len(c.Categorize(capItems(), "", Options{Now: testNow})); got != 3 {
		t.Errorf("len(results) = %d, want 3", got)
	}
}

func TestCategorize_CatchAll(t *testing.T) {
	c := newTestCategorizer(t, func(s *Settings) { s.IncludeCatchAll = true })
	results := c.Categorize([]content.Item{breadItem(), aiItem()}, aiQuery, Options{Now: testNow})

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	all := results[len(results)-1]
	if all.ID != category.IDAll {
		t.Fatalf("last result = %s, want %s", all.ID, category.IDAll)
	}
	if len(all.Content) != 2 {
		t.Fatalf("catch-all holds %d items, want 2", len(all.Content))
	}
	if all.Content[0].Title != aiItem().Title {
		t.Errorf("catch-all first item = %q, want the more relevant AI item", all.Content[0].Title)
	}
}

func TestCategorize_VerifiedRelaxesThreshold(t *testing.T) {
	c := newTestCategorizer(t, nil)
	plain := content.Item{Title: "Plain note", Body: "Something about capital."}
	verified := content.Item{Title: "Verified note", Body: "Something about capital.", Verified: true}

	results := c.Categorize([]content.Item{plain, verified}, "", Options{Now: testNow})

	invest := findResult(results, category.IDInvestmentTrends)
	if invest == nil || len(invest.Content) != 1 || invest.Content[0].Title != verified.Title {
		t.Errorf("investment bucket = %+v, want only the verified item", invest)
	}
	other := findResult(results, category.IDOther)
	if other == nil || len(other.Content) != 1 || other.Content[0].Title != plain.Title {
		t.Errorf("fallback bucket = %+v, want only the plain item", other)
	}
}

func TestCategorize_BusinessOverride(t *testing.T) {
	c := newTestCategorizer(t, nil)
	off := false
	results, report := c.Run([]content.Item{aiItem()}, aiQuery, Options{Now: testNow, BusinessOverride: &off})

	if report.Business {
		t.Error("report.Business = true, want overridden to false")
	}
	invest := findResult(results, category.IDInvestmentTrends)
	if invest == nil {
		t.Fatal("AI item not in investment trends")
	}
	if got := invest.Content[0].Affinity; got >= 95 {
		t.Errorf("affinity = %d, want unboosted below 95", got)
	}
}

func TestCategorize_ReusesAttachedMetrics(t *testing.T) {
	c := newTestCategorizer(t, nil)
	it := aiItem()
	it.Metrics = &metrics.Bundle{Relevance: 90, Accuracy: 10, Credibility: 80, Recency: 60}

	results, report := c.Run([]content.Item{it}, aiQuery, Options{Now: testNow})
	if report.Reused != 1 {
		t.Errorf("Reused = %d, want 1", report.Reused)
	}
	got := results[0].Content[0].Bundle()
	if got.Relevance != 90 || got.Accuracy != metrics.AccuracyFloor {
		t.Errorf("bundle = %+v, want relevance 90 and accuracy %d", got, metrics.AccuracyFloor)
	}
	if it.Metrics.Accuracy != 10 {
		t.Error("input item's bundle was modified")
	}
}

func TestCategorize_DegradedCalculator(t *testing.T) {
	c := newTestCategorizer(t, nil)
	c.calc = c.calc.WithScorers(metrics.Scorers{
		Accuracy: func(in metrics.Input) int {
			if in.Title == "Recipe for bread" {
				panic("accuracy calculator failed")
			}
			return metrics.Accuracy(in)
		},
	})

	results, report := c.Run([]content.Item{aiItem(), breadItem()}, aiQuery, Options{Now: testNow})

	if report.Degraded != 1 {
		t.Errorf("Degraded = %d, want 1", report.Degraded)
	}
	if report.Assigned() != 2 {
		t.Errorf("Assigned() = %d, want 2", report.Assigned())
	}

	other := findResult(results, category.IDOther)
	if other == nil || len(other.Content) != 1 {
		t.Fatalf("no single-item %s category in results", category.IDOther)
	}
	if got := other.Content[0].Bundle(); got != metrics.DefaultBundle {
		t.Errorf("degraded bundle = %+v, want %+v", got, metrics.DefaultBundle)
	}

	invest := findResult(results, category.IDInvestmentTrends)
	if invest == nil || invest.Content[0].Bundle() == metrics.DefaultBundle {
		t.Error("healthy item should keep its computed metrics")
	}

	assessed := c.Assess([]content.Item{breadItem()}, aiQuery, Options{Now: testNow})
	if len(assessed) != 1 || !assessed[0].Degraded {
		t.Errorf("Assess() = %+v, want one degraded item", assessed)
	}
}

func TestCategorize_Properties(t *testing.T) {
	c := newTestCategorizer(t, nil)
	items := []content.Item{
		aiItem(),
		breadItem(),
		{Title: "patient treatment clinical care", Date: "2024-01-01"},
		{Snippet: "ransomware malware phishing attack on hospitals"},
		{Description: "Market analysts expect stock earnings to rise", URL: "https://www.reuters.com/markets/x"},
		{Title: ""},
	}

	results := c.Categorize(items, aiQuery, Options{Now: testNow})
	if len(results) > 6 {
		t.Fatalf("len(results) = %d, want <= 6", len(results))
	}

	seen := make(map[string]int)
	for _, r := range results {
		if r.ID == category.IDAll {
			continue
		}
		for i, si := range r.Content {
			seen[si.Key]++
			b := si.Bundle()
			for _, v := range []int{b.Relevance, b.Accuracy, b.Credibility, b.Recency, b.Overall} {
				if v < 0 || v > 100 {
					t.Errorf("%s: score %d out of range", si.Key, v)
				}
			}
			if b.Accuracy < metrics.AccuracyFloor {
				t.Errorf("%s: accuracy %d below floor", si.Key, b.Accuracy)
			}
			if i > 0 && r.Content[i-1].Bundle().Relevance < b.Relevance {
				t.Errorf("%s: items not sorted by relevance", r.ID)
			}
		}
	}

	valid := 0
	for _, it := range items {
		if it.Valid() {
			valid++
			if seen[it.Key()] != 1 {
				t.Errorf("item %q appears %d times, want exactly once", it.Key(), seen[it.Key()])
			}
		}
	}
	if len(seen) != valid {
		t.Errorf("distinct items in results = %d, want %d", len(seen), valid)
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	items := append([]content.Item{aiItem(), breadItem()}, capItems()...)

	var outputs []string
	for _, workers := range []int{1, 8, 8} {
		c := newTestCategorizer(t, nil)
		results := c.Categorize(items, aiQuery, Options{Now: testNow, Workers: workers})
		data, err := json.Marshal(results)
		if err != nil {
			t.Fatalf("json.Marshal() error = %v", err)
		}
		outputs = append(outputs, string(data))
	}

	for i := 1; i < len(outputs); i++ {
		if outputs[i] != outputs[0] {
			t.Errorf("run %d output differs from run 0", i)
		}
	}
}

type fakeRecorder struct {
	reports []Report
}

func (f *fakeRecorder) ObserveRun(r Report) {
	f.reports = append(f.reports, r)
}

func TestCategorizer_Recorder(t *testing.T) {
	c := newTestCategorizer(t, nil)
	rec := &fakeRecorder{}
	c.SetRecorder(rec)

	c.Categorize([]content.Item{aiItem(), breadItem()}, aiQuery, Options{Now: testNow})

	if len(rec.reports) != 1 {
		t.Fatalf("recorder saw %d runs, want 1", len(rec.reports))
	}
	if got := rec.reports[0].Assigned(); got != 2 {
		t.Errorf("Assigned() = %d, want 2", got)
	}
}

func TestStage(t *testing.T) {
	tests := []struct {
		stage Stage
		name  string
		next  Stage
	}{
		{Initialized, "initialized", FirstPass},
		{SecondPass, "second_pass", Deduplicated},
		{Sorted, "sorted", Sorted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stage.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.stage.Next(); got != tt.next {
				t.Errorf("Next() = %v, want %v", got, tt.next)
			}
		})
	}
	if got := Stage(42).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}

func TestSettings_Validate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("DefaultSettings().Validate() error = %v", err)
	}

	s := DefaultSettings()
	s.Thresholds.FirstPass = 1.5
	s.Workers = -1
	if err := s.Validate(); err == nil {
		t.Error("Validate() expected error")
	}
}

func TestAssess(t *testing.T) {
	c := newTestCategorizer(t, nil)
	items := []content.Item{aiItem(), {}, breadItem()}
	got := c.Assess(items, aiQuery, Options{Now: testNow})

	if len(got) != 2 {
		t.Fatalf("len(Assess) = %d, want 2", len(got))
	}
	if got[0].Category != category.IDInvestmentTrends {
		t.Errorf("AI category = %q, want %q", got[0].Category, category.IDInvestmentTrends)
	}
	if got[0].Affinity != 95 {
		t.Errorf("AI affinity = %d, want 95", got[0].Affinity)
	}
	if got[1].Affinity >= 65 {
		t.Errorf("bread affinity = %d, want below the second-pass threshold", got[1].Affinity)
	}
	if got[1].Metrics.Recency != metrics.NeutralRecency {
		t.Errorf("bread recency = %d, want %d", got[1].Metrics.Recency, metrics.NeutralRecency)
	}
}

func TestCacheScope(t *testing.T) {
	c := newTestCategorizer(t, nil)
	base := c.CacheScope(aiQuery, Options{Now: testNow})

	tests := []struct {
		name  string
		query string
		opts  Options
		same  bool
	}{
		{"identical", aiQuery, Options{Now: testNow}, true},
		{"case and spacing", "  ai INVESTMENT   trends 2025 ", Options{Now: testNow}, true},
		{"later the same day", aiQuery, Options{Now: testNow.Add(time.Hour)}, true},
		{"workers ignored", aiQuery, Options{Now: testNow, Workers: 7}, true},
		{"different query", "bread recipe", Options{Now: testNow}, false},
		{"next day", aiQuery, Options{Now: testNow.Add(24 * time.Hour)}, false},
		{"related items", aiQuery, Options{Now: testNow, Related: []content.Item{breadItem()}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.CacheScope(tt.query, tt.opts)
			if (got == base) != tt.same {
				t.Errorf("CacheScope(%q) == base = %v, want %v", tt.query, got == base, tt.same)
			}
		})
	}

	custom := newTestCategorizer(t, func(s *Settings) {
		override := querycontext.Profiles{querycontext.General: {Relevance: 0.6, Accuracy: 0.2, Credibility: 0.2}}
		for _, qc := range querycontext.AllContexts() {
			override[qc] = override[querycontext.General]
		}
		s.Profiles = s.Profiles.Merge(override)
	})
	if got := custom.CacheScope(aiQuery, Options{Now: testNow}); got == base {
		t.Error("CacheScope should change with the weight profile")
	}
}
