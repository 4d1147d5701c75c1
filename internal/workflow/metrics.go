package workflow

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JaimeStill/wayfarer/internal/prompts"
)

// Metrics records pipeline activity. A nil *Metrics records nothing.
type Metrics struct {
	runs     *prometheus.CounterVec
	stages   *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewMetrics creates the pipeline collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wayfarer_pipeline_runs_total",
				Help: "Pipeline runs by terminal status.",
			},
			[]string{"status"},
		),
		stages: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wayfarer_stage_duration_seconds",
				Help:    "Duration of successful stage generations.",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
			[]string{"stage"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wayfarer_stage_failures_total",
				Help: "Stage failures by kind.",
			},
			[]string{"stage", "kind"},
		),
	}

	for _, c := range []prometheus.Collector{m.runs, m.stages, m.failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) observeRun(status Status) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) observeStage(stage prompts.Stage, d time.Duration) {
	if m == nil {
		return
	}
	m.stages.WithLabelValues(string(stage)).Observe(d.Seconds())
}

func (m *Metrics) observeFailure(stage prompts.Stage, kind error) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(string(stage), KindName(kind)).Inc()
}

// KindName returns a short label for a failure kind.
func KindName(kind error) string {
	switch {
	case errors.Is(kind, ErrValidation):
		return "validation"
	case errors.Is(kind, ErrTemplate):
		return "template"
	case errors.Is(kind, ErrRateLimited):
		return "rate_limited"
	default:
		return "backend"
	}
}
