package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"funnelgate/internal/db"
)

var (
	decisionOutcomeDesc = prometheus.NewDesc(
		"funnelgate_redirect_decisions_total",
		"Total redirect decision count by surface and outcome",
		[]string{"surface", "outcome"},
		nil,
	)
)

// DecisionCollector is a custom Prometheus collector that reads decision
// outcome counts from the database on each scrape.
type DecisionCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *DecisionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- decisionOutcomeDesc
}

// Collect queries the database for all decision outcomes and emits them as counters.
func (c *DecisionCollector) Collect(ch chan<- prometheus.Metric) {
	outcomes, err := c.db.GetAllDecisionOutcomes(context.Background())
	if err != nil {
		slog.Error("failed to collect decision outcome metrics", "error", err)
		return
	}
	for _, o := range outcomes {
		ch <- prometheus.MustNewConstMetric(
			decisionOutcomeDesc,
			prometheus.CounterValue,
			float64(o.Count),
			o.Surface,
			o.Outcome,
		)
	}
}

// Recorder provides async decision outcome recording.
type Recorder struct {
	db *db.DB
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the custom collector and initializes the recorder.
// Must be called once at startup.
func Init(database *db.DB) {
	recorderOnce.Do(func() {
		recorder = &Recorder{db: database}
		prometheus.MustRegister(&DecisionCollector{db: database})
	})
}

// RecordDecision asynchronously records a redirect decision outcome.
func RecordDecision(surface, outcome string) {
	if recorder == nil {
		return
	}
	go func() {
		if err := recorder.db.IncrementDecisionOutcome(context.Background(), surface, outcome); err != nil {
			slog.Error("failed to record decision outcome", "surface", surface, "outcome", outcome, "error", err)
		}
	}()
}
