package metrics

import (
	"fmt"
	"log/slog"
)

// Scorers are the per-metric calculators a Calculator runs
type Scorers struct {
	Relevance   func(Input) int
	Accuracy    func(Input) int
	Credibility func(Input) int
	Recency     func(Input) int
}

// DefaultScorers returns the built-in calculators
func DefaultScorers() Scorers {
	return Scorers{
		Relevance:   Relevance,
		Accuracy:    Accuracy,
		Credibility: Credibility,
		Recency:     Recency,
	}
}

// Calculator runs the four metric calculators for one item behind a fault
// boundary
type Calculator struct {
	logger  *slog.Logger
	scorers Scorers
}

// NewCalculator creates a Calculator over DefaultScorers. A nil logger uses
// slog.Default().
func NewCalculator(logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{logger: logger, scorers: DefaultScorers()}
}

// WithScorers returns a copy of c running s. Nil fields keep the default
// calculator.
func (c *Calculator) WithScorers(s Scorers) *Calculator {
	d := DefaultScorers()
	if s.Relevance == nil {
		s.Relevance = d.Relevance
	}
	if s.Accuracy == nil {
		s.Accuracy = d.Accuracy
	}
	if s.Credibility == nil {
		s.Credibility = d.Credibility
	}
	if s.Recency == nil {
		s.Recency = d.Recency
	}
	cp := *c
	cp.scorers = s
	return &cp
}

// Result is the outcome of scoring one item
type Result struct {
	Bundle   Bundle
	Reused   bool // a pre-attached bundle was used
	Degraded bool // a calculator failed and DefaultBundle was substituted
}

// Score computes the metric bundle for in. When pre is non-nil it is reused
// instead of recomputed; only a missing overall score is derived and the
// accuracy floor still applies. A panic inside any calculator is logged and
// replaced with DefaultBundle.
func (c *Calculator) Score(in Input, pre *Bundle) (res Result) {
	if pre != nil {
		b := pre.Clamped()
		b.Accuracy = max(AccuracyFloor, b.Accuracy)
		if b.Overall == 0 {
			b = b.WithOverall(in.Weights)
		}
		return Result{Bundle: b, Reused: true}
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("metric calculation failed, using defaults",
				"title", in.Title,
				"error", fmt.Sprint(r))
			res = Result{Bundle: DefaultBundle, Degraded: true}
		}
	}()

	b := Bundle{
		Relevance:   c.scorers.Relevance(in),
		Accuracy:    c.scorers.Accuracy(in),
		Credibility: c.scorers.Credibility(in),
		Recency:     c.scorers.Recency(in),
	}
	return Result{Bundle: b.WithOverall(in.Weights)}
}
