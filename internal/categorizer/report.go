package categorizer

import (
	"time"

	"github.com/vijay-prabhu/searchlens/internal/querycontext"
)

// Report describes what one run did at each stage
type Report struct {
	Query    string                 `json:"query"`
	Contexts []querycontext.Context `json:"contexts"`
	Weights  querycontext.Weights   `json:"weights"`
	Business bool                   `json:"business"`
	Stages   []Stage                `json:"stages"`

	Input   int `json:"input"`
	Skipped int `json:"skipped"`

	FirstPass  int `json:"first_pass"`
	SecondPass int `json:"second_pass"`
	Fallback   int `json:"fallback"`
	Unassigned int `json:"unassigned"`

	Duplicates        int `json:"duplicates"`
	MultiClaimed      int `json:"multi_claimed"`
	DroppedCategories int `json:"dropped_categories"`
	DroppedItems      int `json:"dropped_items"`

	Degraded int `json:"degraded"`
	Reused   int `json:"reused"`

	Duration time.Duration `json:"duration_ns"`
}

// Assigned returns the number of distinct items that received a category
func (r Report) Assigned() int {
	return r.FirstPass + r.SecondPass + r.Fallback
}
