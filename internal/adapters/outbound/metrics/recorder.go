// Package metrics exposes audit results as Prometheus metrics and writes them
// to a node-exporter textfile.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/abdidvp/carouselaudit/internal/domain"
)

// Recorder implements domain.ResultRecorder.
type Recorder struct {
	registry *prometheus.Registry

	Score           *prometheus.GaugeVec
	Passed          *prometheus.GaugeVec
	RuleViolations  *prometheus.GaugeVec
	ManualIssues    *prometheus.GaugeVec
	KeyboardChecks  *prometheus.GaugeVec
	TargetsTotal    *prometheus.CounterVec
	TargetDuration  *prometheus.HistogramVec
	LastRunFinished prometheus.Gauge

	mu sync.Mutex
}

// NewRecorder registers the audit metrics on a private registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := []string{"implementation", "variant"}

	return &Recorder{
		registry: reg,
		Score: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "carouselaudit_score_percent",
			Help: "Rubric score of a target in percent",
		}, labels),
		Passed: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "carouselaudit_target_passing",
			Help: "1 when the target meets its pass bar",
		}, labels),
		RuleViolations: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "carouselaudit_rule_violations",
			Help: "Ruleset violations found in the target",
		}, labels),
		ManualIssues: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "carouselaudit_manual_issues",
			Help: "Manual check issues by severity",
		}, append(labels, "severity")),
		KeyboardChecks: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "carouselaudit_keyboard_confirmed",
			Help: "Keyboard probe sub-checks confirmed (0-4)",
		}, labels),
		TargetsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "carouselaudit_targets_total",
			Help: "Targets audited by outcome",
		}, []string{"outcome"}),
		TargetDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "carouselaudit_target_duration_seconds",
			Help:    "Wall time spent auditing one target",
			Buckets: []float64{1, 2.5, 5, 10, 20, 45, 90},
		}, []string{"outcome"}),
		LastRunFinished: factory.NewGauge(prometheus.GaugeOpts{
			Name: "carouselaudit_last_run_timestamp_seconds",
			Help: "Unix time the last audit run finished",
		}),
	}
}

// Registry returns the registry holding the audit metrics.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func outcome(res domain.TargetResult) string {
	switch {
	case res.Failed():
		return "failed"
	case res.Passes():
		return "passed"
	default:
		return "below_bar"
	}
}

// RecordTarget is safe for concurrent use.
func (r *Recorder) RecordTarget(res domain.TargetResult, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, variant := res.Target.ImplementationID, string(res.Target.Variant)
	r.Score.WithLabelValues(id, variant).Set(float64(res.Score.Percentage))
	passed := 0.0
	if res.Passes() {
		passed = 1
	}
	r.Passed.WithLabelValues(id, variant).Set(passed)
	r.RuleViolations.WithLabelValues(id, variant).Set(float64(len(res.Violations)))

	bySeverity := map[string]int{domain.SeverityCritical: 0, domain.SeveritySerious: 0, domain.SeverityModerate: 0}
	for _, is := range res.ManualIssues {
		bySeverity[is.Severity]++
	}
	for sev, n := range bySeverity {
		r.ManualIssues.WithLabelValues(id, variant, sev).Set(float64(n))
	}

	confirmed := 0
	if res.Keyboard != nil {
		confirmed = res.Keyboard.Confirmed()
	}
	r.KeyboardChecks.WithLabelValues(id, variant).Set(float64(confirmed))

	o := outcome(res)
	r.TargetsTotal.WithLabelValues(o).Inc()
	r.TargetDuration.WithLabelValues(o).Observe(elapsed.Seconds())
}

// WriteTextfile stamps the run end time and writes every metric to path in
// the Prometheus text format.
func (r *Recorder) WriteTextfile(path string, finished time.Time) error {
	r.LastRunFinished.Set(float64(finished.Unix()))
	return prometheus.WriteToTextfile(path, r.registry)
}
