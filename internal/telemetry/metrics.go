// Package telemetry exports categorization run metrics to Prometheus.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vijay-prabhu/searchlens/internal/categorizer"
)

// Metric names
const (
	MetricRunsTotal       = "searchlens_runs_total"
	MetricItemsTotal      = "searchlens_items_total"
	MetricContextsTotal   = "searchlens_query_contexts_total"
	MetricRunDuration     = "searchlens_run_duration_seconds"
	MetricRunItems        = "searchlens_run_items"
	MetricBusinessQueries = "searchlens_business_queries_total"
)

// Item outcome labels
const (
	OutcomeFirstPass  = "first_pass"
	OutcomeSecondPass = "second_pass"
	OutcomeFallback   = "fallback"
	OutcomeUnassigned = "unassigned"
	OutcomeSkipped    = "skipped"
	OutcomeDuplicate  = "duplicate"
	OutcomeDropped    = "dropped"
	OutcomeDegraded   = "degraded"
	OutcomeReused     = "reused"
)

// Metrics records categorization runs. It implements categorizer.Recorder
// and is safe for concurrent use.
type Metrics struct {
	runs     prometheus.Counter
	items    *prometheus.CounterVec
	contexts *prometheus.CounterVec
	business prometheus.Counter
	duration prometheus.Histogram
	runItems prometheus.Histogram
}

var _ categorizer.Recorder = (*Metrics)(nil)

// NewMetrics creates the collectors. They are not registered; call
// Register to attach them to a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRunsTotal,
			Help: "Total number of categorization runs",
		}),
		items: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricItemsTotal,
				Help: "Items processed by categorization outcome",
			},
			[]string{"outcome"},
		),
		contexts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricContextsTotal,
				Help: "Query contexts detected across runs",
			},
			[]string{"context"},
		),
		business: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricBusinessQueries,
			Help: "Runs whose query was handled as business or financial",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRunDuration,
			Help:    "Histogram of categorization run duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		runItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRunItems,
			Help:    "Histogram of input items per run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

// Collectors returns every collector
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.runs, m.items, m.contexts, m.business, m.duration, m.runItems}
}

// Register registers all collectors with reg
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveRun records one completed run
func (m *Metrics) ObserveRun(r categorizer.Report) {
	m.runs.Inc()
	m.duration.Observe(r.Duration.Seconds())
	m.runItems.Observe(float64(r.Input))
	if r.Business {
		m.business.Inc()
	}
	for _, c := range r.Contexts {
		m.contexts.WithLabelValues(string(c)).Inc()
	}

	for outcome, n := range map[string]int{
		OutcomeFirstPass:  r.FirstPass,
		OutcomeSecondPass: r.SecondPass,
		OutcomeFallback:   r.Fallback,
		OutcomeUnassigned: r.Unassigned,
		OutcomeSkipped:    r.Skipped,
		OutcomeDuplicate:  r.Duplicates,
		OutcomeDropped:    r.DroppedItems,
		OutcomeDegraded:   r.Degraded,
		OutcomeReused:     r.Reused,
	} {
		if n > 0 {
			m.items.WithLabelValues(outcome).Add(float64(n))
		}
	}
}
