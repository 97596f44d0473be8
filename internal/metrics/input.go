package metrics

import (
	"strings"
	"time"

	"github.com/vijay-prabhu/searchlens/internal/querycontext"
)

// Input is everything a calculator may look at for one item. Missing
// optional fields are left at their zero values; every calculator documents
// the default it substitutes.
type Input struct {
	Title       string
	Text        string // canonical title + body text
	Domain      string // lower-cased host without "www."
	Published   time.Time
	Author      string
	Affiliation string
	Citations   []string
	Verified    bool

	Query    string
	Contexts []querycontext.Context
	Weights  querycontext.Weights
	Now      time.Time

	// Related holds the texts of sibling results used for
	// cross-reference consistency
	Related []string
}

// lower returns the lower-cased text, computed once per calculator call
func (in *Input) lower() string {
	return strings.ToLower(in.Text)
}

func (in *Input) now() time.Time {
	if in.Now.IsZero() {
		return time.Now()
	}
	return in.Now
}

// age returns the item's age and whether it is known
func (in *Input) age() (time.Duration, bool) {
	if in.Published.IsZero() {
		return 0, false
	}
	return in.now().Sub(in.Published), true
}
