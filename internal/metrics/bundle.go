package metrics

import (
	"math"

	"github.com/vijay-prabhu/searchlens/internal/querycontext"
)

// DisplayThreshold is the minimum a metric must reach to be presentable
const DisplayThreshold = 70

// AccuracyFloor is the lowest accuracy ever reported
const AccuracyFloor = 70

// Bundle holds the four scores of one item plus the weighted overall score.
// Every field is in [0,100].
type Bundle struct {
	Relevance   int `json:"relevance" yaml:"relevance"`
	Accuracy    int `json:"accuracy" yaml:"accuracy"`
	Credibility int `json:"credibility" yaml:"credibility"`
	Recency     int `json:"recency" yaml:"recency"`
	Overall     int `json:"overall" yaml:"overall"`
}

// DefaultBundle replaces the scores of an item whose calculation failed
var DefaultBundle = Bundle{
	Relevance:   70,
	Accuracy:    70,
	Credibility: 70,
	Recency:     NeutralRecency,
	Overall:     70,
}

// Overall derives the overall score from the three weighted metrics
func Overall(relevance, accuracy, credibility int, w querycontext.Weights) int {
	v := float64(relevance)*w.Relevance + float64(accuracy)*w.Accuracy + float64(credibility)*w.Credibility
	return Clamp(int(math.Round(v)))
}

// WithOverall returns b with every field clamped and Overall recomputed
func (b Bundle) WithOverall(w querycontext.Weights) Bundle {
	b = b.Clamped()
	b.Overall = Overall(b.Relevance, b.Accuracy, b.Credibility, w)
	return b
}

// Clamped returns b with every field forced into [0,100]
func (b Bundle) Clamped() Bundle {
	return Bundle{
		Relevance:   Clamp(b.Relevance),
		Accuracy:    Clamp(b.Accuracy),
		Credibility: Clamp(b.Credibility),
		Recency:     Clamp(b.Recency),
		Overall:     Clamp(b.Overall),
	}
}

// PassesThreshold reports whether relevance, accuracy, credibility and
// overall all reach min
func (b Bundle) PassesThreshold(min int) bool {
	return b.Relevance >= min && b.Accuracy >= min && b.Credibility >= min && b.Overall >= min
}

// Mean returns the field-wise mean of bundles, rounded. An empty input
// yields the zero bundle.
func Mean(bundles []Bundle) Bundle {
	if len(bundles) == 0 {
		return Bundle{}
	}
	var rel, acc, cred, rec, ov int
	for _, b := range bundles {
		rel += b.Relevance
		acc += b.Accuracy
		cred += b.Credibility
		rec += b.Recency
		ov += b.Overall
	}
	n := float64(len(bundles))
	avg := func(sum int) int {
		return Clamp(int(math.Round(float64(sum) / n)))
	}
	return Bundle{
		Relevance:   avg(rel),
		Accuracy:    avg(acc),
		Credibility: avg(cred),
		Recency:     avg(rec),
		Overall:     avg(ov),
	}
}

// Clamp forces v into [0,100]
func Clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// toScore converts a [0,1] fraction into a clamped integer score
func toScore(f float64) int {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	return Clamp(int(math.Round(f * 100)))
}

// clamp01 forces f into [0,1]
func clamp01(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
