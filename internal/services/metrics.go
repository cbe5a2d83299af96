package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"alfredoptarigan/candilyzer/internal/models"
)

const (
	outcomeCompleted = "completed"
	outcomeFailed    = "failed"
	outcomeRejected  = "rejected"
	outcomeAbandoned = "abandoned"
)

// Metrics is safe to use as a nil pointer, which records nothing.
type Metrics struct {
	evaluations *prometheus.CounterVec
	fragments   *prometheus.CounterVec
	toolCalls   *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	active      *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "candilyzer_evaluations_total",
				Help: "Total number of evaluations by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		fragments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "candilyzer_fragments_total",
				Help: "Total number of agent fragments streamed by mode and kind",
			},
			[]string{"mode", "kind"},
		),
		toolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "candilyzer_tool_calls_total",
				Help: "Total number of tool function calls by function and outcome",
			},
			[]string{"function", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "candilyzer_evaluation_duration_seconds",
				Help:    "Duration of evaluation streams in seconds",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
			[]string{"mode"},
		),
		active: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "candilyzer_evaluations_active",
				Help: "Number of evaluations currently streaming",
			},
			[]string{"mode"},
		),
	}
}

func (m *Metrics) evaluationRejected(mode models.EvaluationMode) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(string(mode), outcomeRejected).Inc()
}

func (m *Metrics) evaluationStarted(mode models.EvaluationMode) {
	if m == nil {
		return
	}
	m.active.WithLabelValues(string(mode)).Inc()
}

func (m *Metrics) evaluationFinished(mode models.EvaluationMode, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.active.WithLabelValues(string(mode)).Dec()
	m.evaluations.WithLabelValues(string(mode), outcome).Inc()
	m.duration.WithLabelValues(string(mode)).Observe(elapsed.Seconds())
}

func (m *Metrics) fragmentStreamed(mode models.EvaluationMode, f models.Fragment) {
	if m == nil {
		return
	}
	m.fragments.WithLabelValues(string(mode), string(f.Kind)).Inc()
	if f.Kind == models.FragmentToolResult {
		outcome := "ok"
		if f.Failed {
			outcome = "error"
		}
		m.toolCalls.WithLabelValues(f.Tool, outcome).Inc()
	}
}
