package categorizer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vijay-prabhu/searchlens/internal/category"
	"github.com/vijay-prabhu/searchlens/internal/content"
	"github.com/vijay-prabhu/searchlens/internal/metrics"
	"github.com/vijay-prabhu/searchlens/internal/querycontext"
)

// ErrNoRegistry is returned when a Categorizer is built without categories
var ErrNoRegistry = errors.New("categorizer requires a category registry")

// Options are the per-call inputs beyond items and query
type Options struct {
	// Related items are used for cross-reference accuracy scoring
	Related []content.Item
	// BusinessOverride forces business-query handling on or off
	BusinessOverride *bool
	// Now is the reference time for recency; zero means time.Now()
	Now time.Time
	// Workers overrides the configured scoring concurrency when positive
	Workers int
}

// ScoredItem is an input item with its computed metrics attached under
// "_metrics", plus its identity key and category affinity (0-100)
type ScoredItem struct {
	content.Item
	Key      string `json:"key"`
	Affinity int    `json:"affinity"`

	index int
}

// Bundle returns the item's metrics
func (s ScoredItem) Bundle() metrics.Bundle {
	if s.Metrics == nil {
		return metrics.Bundle{}
	}
	return *s.Metrics
}

// Result is one category with its items, best first
type Result struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Priority int            `json:"priority"`
	Metrics  metrics.Bundle `json:"metrics"`
	Content  []ScoredItem   `json:"content"`
}

// Recorder observes completed runs
type Recorder interface {
	ObserveRun(Report)
}

// Categorizer partitions scored items into category buckets. It is safe
// for concurrent use: the registry is read-only and each run owns its
// state.
type Categorizer struct {
	matcher  *category.Matcher
	calc     *metrics.Calculator
	settings Settings
	logger   *slog.Logger
	recorder Recorder
}

// New creates a Categorizer over registry
func New(registry *category.Registry, settings Settings, logger *slog.Logger) (*Categorizer, error) {
	if registry == nil || registry.Len() == 0 {
		return nil, ErrNoRegistry
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if settings.Workers == 0 {
		settings.Workers = 1
	}

	return &Categorizer{
		matcher:  category.NewMatcher(registry).WithDefaultThreshold(settings.Thresholds.Match),
		calc:     metrics.NewCalculator(logger),
		settings: settings,
		logger:   logger,
	}, nil
}

// SetRecorder installs a run observer
func (c *Categorizer) SetRecorder(r Recorder) {
	c.recorder = r
}

// Registry returns the categorizer's registry
func (c *Categorizer) Registry() *category.Registry {
	return c.matcher.Registry()
}

// Profiles returns the weight profiles the categorizer scores with
func (c *Categorizer) Profiles() querycontext.Profiles {
	return c.settings.Profiles
}

// Categorize runs the full pipeline and returns the categorized results.
// Empty input yields an empty, non-nil slice.
func (c *Categorizer) Categorize(items []content.Item, query string, opts Options) []Result {
	results, _ := c.Run(items, query, opts)
	return results
}

// run holds the state of one invocation
type run struct {
	c        *Categorizer
	query    string
	contexts []querycontext.Context
	weights  querycontext.Weights
	business bool
	now      time.Time
	related  []string
	workers  int

	stage      Stage
	candidates []*candidate
	winners    map[string]*candidate
	buckets    []*bucket
	report     Report
}

// candidate is one structurally valid item moving through the passes
type candidate struct {
	index  int
	item   content.Item
	key    string
	text   string
	mc     category.MatchContext
	scored metrics.Result
	ranked category.Ranking

	assigned *category.Category
	affinity float64
	pass     Stage
}

type bucket struct {
	category category.Category
	items    []*candidate
}

// Run is Categorize plus a report of what each stage did
func (c *Categorizer) Run(items []content.Item, query string, opts Options) ([]Result, Report) {
	start := time.Now()
	r := c.newRun(items, query, opts)

	r.firstPass()
	r.secondPass()
	r.deduplicate()
	r.capCategories()
	results := r.sortResults()

	r.report.Duration = time.Since(start)
	c.logger.Debug("categorization complete",
		"query", query,
		"contexts", r.contexts,
		"items", r.report.Input,
		"skipped", r.report.Skipped,
		"categories", len(results),
		"fallback", r.report.Fallback,
		"degraded", r.report.Degraded,
		"duration", r.report.Duration)

	if c.recorder != nil {
		c.recorder.ObserveRun(r.report)
	}
	return results, r.report
}

// CacheScope digests every input besides the item itself that a metric
// bundle depends on: the normalized query, its contexts and weight profile,
// the reference day and the related items. Cached bundles are only valid
// within the scope they were computed under.
func (c *Categorizer) CacheScope(query string, opts Options) string {
	contexts := querycontext.Classify(query)
	w := c.settings.Profiles.For(contexts)
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	related := make([]string, 0, len(opts.Related))
	for _, rel := range opts.Related {
		if t := rel.Text(); t != "" {
			related = append(related, t)
		}
	}
	sort.Strings(related)

	h := sha256.New()
	fmt.Fprintf(h, "q=%s\n", strings.Join(strings.Fields(strings.ToLower(query)), " "))
	for _, qc := range contexts {
		fmt.Fprintf(h, "c=%s\n", qc)
	}
	fmt.Fprintf(h, "w=%.4f,%.4f,%.4f\n", w.Relevance, w.Accuracy, w.Credibility)
	fmt.Fprintf(h, "d=%s\n", now.UTC().Format("2006-01-02"))
	for _, t := range related {
		fmt.Fprintf(h, "r=%d:%s\n", len(t), t)
	}
	return hex.EncodeToString(h.Sum(nil))[:32]
}

func (c *Categorizer) newRun(items []content.Item, query string, opts Options) *run {
	contexts := querycontext.Classify(query)
	business := querycontext.IsBusiness(contexts)
	if opts.BusinessOverride != nil {
		business = *opts.BusinessOverride
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	r := &run{
		c:        c,
		query:    query,
		contexts: contexts,
		weights:  c.settings.Profiles.For(contexts),
		business: business,
		now:      now,
		workers:  c.settings.Workers,
		winners:  make(map[string]*candidate),
	}
	if opts.Workers > 0 {
		r.workers = opts.Workers
	}
	for _, rel := range opts.Related {
		if t := rel.Text(); t != "" {
			r.related = append(r.related, t)
		}
	}

	r.report = Report{
		Query:    query,
		Contexts: contexts,
		Weights:  r.weights,
		Business: business,
		Input:    len(items),
		Stages:   []Stage{Initialized},
	}

	r.ingest(items)
	r.score()
	return r
}

// advance moves the run to its next stage and records it
func (r *run) advance() {
	r.stage = r.stage.Next()
	r.report.Stages = append(r.report.Stages, r.stage)
}

// ingest drops items with no extractable text and prepares the rest
func (r *run) ingest(items []content.Item) {
	for i, it := range items {
		text := it.Text()
		if text == "" {
			r.report.Skipped++
			continue
		}
		r.candidates = append(r.candidates, &candidate{
			index: i,
			item:  it,
			key:   it.Key(),
			text:  text,
			mc: category.MatchContext{
				Query:     r.query,
				Business:  r.business,
				Verified:  it.Verified,
				Published: it.Published(),
				Now:       r.now,
			},
		})
	}
}

func (r *run) metricInput(cd *candidate) metrics.Input {
	it := cd.item
	return metrics.Input{
		Title:       it.Title,
		Text:        cd.text,
		Domain:      it.HostDomain(),
		Published:   cd.mc.Published,
		Author:      it.Author,
		Affiliation: it.Affiliation,
		Citations:   it.Citations,
		Verified:    it.Verified,
		Query:       r.query,
		Contexts:    r.contexts,
		Weights:     r.weights,
		Now:         r.now,
		Related:     r.related,
	}
}

// score computes metrics and affinities for every candidate concurrently.
// Each goroutine writes only its own candidate; the WaitGroup join makes
// every result visible before the passes start.
func (r *run) score() {
	if len(r.candidates) == 0 {
		return
	}
	workers := min(r.workers, len(r.candidates))
	if workers <= 1 {
		for _, cd := range r.candidates {
			r.scoreOne(cd)
		}
		return
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for _, cd := range r.candidates {
		wg.Add(1)
		go func(cd *candidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			r.scoreOne(cd)
		}(cd)
	}
	wg.Wait()
}

// scoreOne computes metrics and category affinities for one candidate.
// Anything that fails outside the calculator's own boundary degrades the
// item to default metrics and no affinity.
func (r *run) scoreOne(cd *candidate) {
	defer func() {
		if p := recover(); p != nil {
			r.c.logger.Warn("item scoring failed, using defaults", "key", cd.key, "error", p)
			cd.scored = metrics.Result{Bundle: metrics.DefaultBundle, Degraded: true}
			cd.ranked = nil
		}
	}()

	cd.scored = r.c.calc.Score(r.metricInput(cd), cd.item.Metrics)
	cd.ranked = r.c.matcher.Rank(cd.text, cd.mc)
}

// passThreshold returns the threshold for a pass, relaxed to the matcher's
// adaptive value for verified items and business queries
func (r *run) passThreshold(cd *candidate, base float64) float64 {
	if r.c.matcher.Relaxed(cd.mc) {
		return math.Min(base, r.c.matcher.Threshold(cd.mc))
	}
	return base
}

// claim records cd as the winner for its key unless an assignment with an
// equal or higher affinity already holds it. The displaced loser is simply
// forgotten.
func (r *run) claim(cd *candidate, cat category.Category, affinity float64, pass Stage) {
	if prev, ok := r.winners[cd.key]; ok {
		if prev.affinity >= affinity {
			return
		}
		prev.assigned = nil
	}

	c := cat
	cd.assigned = &c
	cd.affinity = affinity
	cd.pass = pass
	r.winners[cd.key] = cd
}

func (r *run) firstPass() {
	r.advance()
	for _, cd := range r.candidates {
		best, ok := cd.ranked.Best()
		if !ok {
			continue
		}
		if best.Score >= r.passThreshold(cd, r.c.settings.Thresholds.FirstPass) {
			r.claim(cd, best.Category, best.Score, FirstPass)
		}
	}
}

// secondPass retries every key still unowned after the first pass with the
// relaxed threshold, then parks what remains in the fallback category
func (r *run) secondPass() {
	r.advance()
	fallback, hasFallback := r.c.Registry().Fallback()

	for _, cd := range r.candidates {
		if w, ok := r.winners[cd.key]; ok && w.pass == FirstPass {
			continue
		}

		if best, ok := cd.ranked.Best(); ok && best.Score >= r.passThreshold(cd, r.c.settings.Thresholds.SecondPass) {
			r.claim(cd, best.Category, best.Score, SecondPass)
			continue
		}
		if hasFallback {
			r.claim(cd, fallback, r.c.settings.Thresholds.FallbackScore, SecondPass)
		}
	}

	r.tally()
}

// tally fills the per-pass counters from the final winners
func (r *run) tally() {
	seen := make(map[string]bool, len(r.candidates))
	for _, cd := range r.candidates {
		if seen[cd.key] {
			r.report.Duplicates++
			continue
		}
		seen[cd.key] = true

		w, ok := r.winners[cd.key]
		switch {
		case !ok:
			r.report.Unassigned++
		case w.assigned.Fallback:
			r.report.Fallback++
		case w.pass == FirstPass:
			r.report.FirstPass++
		default:
			r.report.SecondPass++
		}
	}
	for _, cd := range r.candidates {
		if cd.scored.Degraded {
			r.report.Degraded++
		}
		if cd.scored.Reused {
			r.report.Reused++
		}
	}
}

// deduplicate turns the winners into buckets. Each key already owns a single
// assignment; items that cleared the match threshold for more than one
// category are counted as multi-claimed. The catch-all bucket, when
// enabled, holds every winner.
func (r *run) deduplicate() {
	r.advance()
	reg := r.c.Registry()

	byID := make(map[string]*bucket)
	var winners []*candidate
	for _, cd := range r.candidates {
		if r.winners[cd.key] != cd || cd.assigned == nil {
			continue
		}
		winners = append(winners, cd)

		if !cd.assigned.Fallback && len(cd.ranked.Matches(r.c.matcher.Threshold(cd.mc))) > 1 {
			r.report.MultiClaimed++
		}

		b, ok := byID[cd.assigned.ID]
		if !ok {
			b = &bucket{category: *cd.assigned}
			byID[cd.assigned.ID] = b
			r.buckets = append(r.buckets, b)
		}
		b.items = append(b.items, cd)
	}

	if r.c.settings.IncludeCatchAll && len(winners) > 0 {
		if all, ok := reg.CatchAll(); ok {
			r.buckets = append(r.buckets, &bucket{category: all, items: winners})
		}
	}
}

// capCategories keeps the MaxCategories buckets with the lowest priority
// value, larger buckets first on ties. Items in dropped buckets are not
// reassigned.
func (r *run) capCategories() {
	r.advance()
	reg := r.c.Registry()

	sort.SliceStable(r.buckets, func(i, j int) bool {
		a, b := r.buckets[i], r.buckets[j]
		if a.category.Priority != b.category.Priority {
			return a.category.Priority < b.category.Priority
		}
		if len(a.items) != len(b.items) {
			return len(a.items) > len(b.items)
		}
		return reg.Position(a.category.ID) < reg.Position(b.category.ID)
	})

	if limit := r.c.settings.MaxCategories; len(r.buckets) > limit {
		r.report.DroppedCategories = len(r.buckets) - limit
		for _, b := range r.buckets[limit:] {
			if !b.category.CatchAll {
				r.report.DroppedItems += len(b.items)
			}
		}
		r.buckets = r.buckets[:limit]
	}
}

// sortResults orders each bucket by relevance, input order breaking ties,
// and builds the final results
func (r *run) sortResults() []Result {
	r.advance()

	results := make([]Result, 0, len(r.buckets))
	for _, b := range r.buckets {
		items := append([]*candidate(nil), b.items...)
		sort.SliceStable(items, func(i, j int) bool {
			ri, rj := items[i].scored.Bundle.Relevance, items[j].scored.Bundle.Relevance
			if ri != rj {
				return ri > rj
			}
			return items[i].index < items[j].index
		})

		res := Result{
			ID:       b.category.ID,
			Name:     b.category.Name,
			Priority: b.category.Priority,
			Content:  make([]ScoredItem, 0, len(items)),
		}
		bundles := make([]metrics.Bundle, 0, len(items))
		for _, cd := range items {
			bundle := cd.scored.Bundle
			it := cd.item
			it.Metrics = &bundle
			res.Content = append(res.Content, ScoredItem{
				Item:     it,
				Key:      cd.key,
				Affinity: int(math.Round(cd.affinity * 100)),
				index:    cd.index,
			})
			bundles = append(bundles, bundle)
		}
		res.Metrics = metrics.Mean(bundles)
		results = append(results, res)
	}
	return results
}

// Assessment is one item's metrics and best category, scored outside a
// categorization run
type Assessment struct {
	Key      string         `json:"key"`
	Title    string         `json:"title,omitempty"`
	Metrics  metrics.Bundle `json:"metrics"`
	Category string         `json:"category,omitempty"`
	Affinity int            `json:"affinity"`
	Reused   bool           `json:"reused,omitempty"`
	Degraded bool           `json:"degraded,omitempty"`
}

// Assess scores every item with text and reports its best category without
// running the passes. Items with no text are omitted.
func (c *Categorizer) Assess(items []content.Item, query string, opts Options) []Assessment {
	r := c.newRun(items, query, opts)

	out := make([]Assessment, 0, len(r.candidates))
	for _, cd := range r.candidates {
		a := Assessment{
			Key:      cd.key,
			Title:    cd.item.Title,
			Metrics:  cd.scored.Bundle,
			Reused:   cd.scored.Reused,
			Degraded: cd.scored.Degraded,
		}
		if best, ok := cd.ranked.Best(); ok {
			a.Category = best.Category.ID
			a.Affinity = int(math.Round(best.Score * 100))
		}
		out = append(out, a)
	}
	return out
}
