package querycontext

import (
	"math"
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []Context
	}{
		{"empty", "", []Context{General}},
		{"no hits", "how to bake bread", []Context{General}},
		{"short keyword inside word", "he said hello", []Context{General}},
		{"financial only", "stock market earnings", []Context{Financial}},
		{"ties keep canonical order", "AI investment trends 2025", []Context{Financial, Business, Technical}},
		{"most hits first", "latest clinical news", []Context{News, Medical}},
		{"case insensitive", "PEER-REVIEWED Research", []Context{Academic}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestIsBusiness(t *testing.T) {
	if !IsBusiness(Classify("AI investment trends 2025")) {
		t.Error("IsBusiness(investment query) = false, want true")
	}
	if IsBusiness(Classify("how to bake bread")) {
		t.Error("IsBusiness(bread query) = true, want false")
	}
}

func TestDefaultProfiles_SumToOne(t *testing.T) {
	for ctx, w := range DefaultProfiles() {
		if math.Abs(w.Sum()-1.0) > 0.001 {
			t.Errorf("profile %s sums to %.3f, want 1.0", ctx, w.Sum())
		}
	}
	if err := DefaultProfiles().Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestProfiles_For(t *testing.T) {
	p := DefaultProfiles()

	tests := []struct {
		name     string
		contexts []Context
		want     Weights
	}{
		{"general", []Context{General}, DefaultWeights},
		{"financial", []Context{Financial, Business}, Weights{0.25, 0.45, 0.30}},
		{"news", []Context{News}, Weights{0.45, 0.30, 0.25}},
		{"academic", []Context{Academic}, Weights{0.30, 0.30, 0.40}},
		{"empty", nil, DefaultWeights},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.For(tt.contexts); got != tt.want {
				t.Errorf("For(%v) = %+v, want %+v", tt.contexts, got, tt.want)
			}
		})
	}
}

func TestProfiles_MergeAndValidate(t *testing.T) {
	merged := DefaultProfiles().Merge(Profiles{
		News:    {Relevance: 0.5, Accuracy: 0.3, Credibility: 0.2},
		Medical: {},
	})
	if got := merged[News].Relevance; got != 0.5 {
		t.Errorf("merged news relevance = %v, want 0.5", got)
	}
	if got := merged[Medical]; got != DefaultProfiles()[Medical] {
		t.Errorf("zero override replaced medical profile: %+v", got)
	}

	bad := Profiles{News: {Relevance: 0.5, Accuracy: 0.5, Credibility: 0.5}}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() expected error for weights summing to 1.5")
	}
	unknown := Profiles{"sports": DefaultWeights}
	if err := unknown.Validate(); err == nil {
		t.Error("Validate() expected error for unknown context")
	}
}

func TestParseContext(t *testing.T) {
	if c, err := ParseContext(" Financial "); err != nil || c != Financial {
		t.Errorf("ParseContext() = %v, %v; want financial", c, err)
	}
	if _, err := ParseContext("weather"); err == nil {
		t.Error("ParseContext(weather) expected error")
	}
}
