package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for experiment runs.
type Metrics struct {
	// Trials by scenario and outcome ("win" or "loss" for the challenger)
	TrialsTotal *prometheus.CounterVec

	// Latest estimated challenger win proportion per scenario
	WinProportion *prometheus.GaugeVec

	// Latest 95% interval width per scenario
	IntervalWidth *prometheus.GaugeVec

	// Wall-clock duration of a scenario run
	RunDuration *prometheus.HistogramVec

	// Comparisons by conclusion ("overlap", "separated" or "inconclusive")
	Comparisons *prometheus.CounterVec
}

// New creates a Metrics instance registered with reg.
// Passing prometheus.DefaultRegisterer matches promauto's global behaviour.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TrialsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "turnout_trials_total",
			Help: "Total simulated elections by scenario and challenger outcome",
		}, []string{"scenario", "outcome"}),

		WinProportion: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "turnout_win_proportion",
			Help: "Estimated challenger win proportion for the latest run of a scenario",
		}, []string{"scenario"}),

		IntervalWidth: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "turnout_interval_width",
			Help: "Width of the 95% confidence interval for the latest run of a scenario",
		}, []string{"scenario"}),

		RunDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "turnout_run_duration_seconds",
			Help:    "Duration of a full scenario run across all workers",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"scenario"}),

		Comparisons: f.NewCounterVec(prometheus.CounterOpts{
			Name: "turnout_comparisons_total",
			Help: "Scenario comparisons by interval overlap conclusion",
		}, []string{"conclusion"}),
	}
}

// ObserveTrials records a batch of trials for a scenario.
func (m *Metrics) ObserveTrials(scenario string, wins, trials int) {
	if m != nil {
		m.TrialsTotal.WithLabelValues(scenario, "win").Add(float64(wins))
		m.TrialsTotal.WithLabelValues(scenario, "loss").Add(float64(trials - wins))
	}
}

// ObserveEstimate records the final estimate of a scenario run.
func (m *Metrics) ObserveEstimate(scenario string, proportion, width float64, d time.Duration) {
	if m != nil {
		m.WinProportion.WithLabelValues(scenario).Set(proportion)
		m.IntervalWidth.WithLabelValues(scenario).Set(width)
		m.RunDuration.WithLabelValues(scenario).Observe(d.Seconds())
	}
}

// IncrementComparison records the conclusion of a comparison.
func (m *Metrics) IncrementComparison(conclusion string) {
	if m != nil {
		m.Comparisons.WithLabelValues(conclusion).Inc()
	}
}
