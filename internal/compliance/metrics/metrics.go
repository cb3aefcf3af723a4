package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the forensic interlock.
type Metrics struct {
	// Evidence loading latencies by source
	EvidenceLatency *prometheus.HistogramVec

	// Evaluation results by check result and interlock status
	CheckResults *prometheus.CounterVec

	// Overall evaluation latency
	EvaluateLatency prometheus.Histogram

	// Override workflow actions
	OverrideActions *prometheus.CounterVec

	// Charge sheet gate decisions
	GateDecisions *prometheus.CounterVec
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers on reg; tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EvidenceLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nyaya_compliance_evidence_duration_seconds",
			Help:    "Duration of evidence loading operations by source",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"source"}), // source: "facts", "video", "token", "record"

		CheckResults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nyaya_compliance_checks_total",
			Help: "Compliance evaluations by check result and interlock status",
		}, []string{"result", "status"}),

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "nyaya_compliance_evaluate_duration_seconds",
			Help:    "Duration of full compliance evaluation including evidence loading",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		OverrideActions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nyaya_compliance_override_actions_total",
			Help: "Override requests, approvals and rejections by whether they applied",
		}, []string{"action", "applied"}),

		GateDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nyaya_compliance_gate_decisions_total",
			Help: "Charge sheet submission attempts by outcome",
		}, []string{"allowed", "override"}),
	}
}

// ObserveEvidenceLatency records the duration of loading evidence from a source.
func (m *Metrics) ObserveEvidenceLatency(source string, d time.Duration) {
	if m != nil {
		m.EvidenceLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncrementCheck records an evaluation outcome.
func (m *Metrics) IncrementCheck(result, status string) {
	if m != nil {
		m.CheckResults.WithLabelValues(result, status).Inc()
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementOverrideAction(action string, applied bool) {
	if m != nil {
		m.OverrideActions.WithLabelValues(action, strconv.FormatBool(applied)).Inc()
	}
}

func (m *Metrics) IncrementGateDecision(allowed, override bool) {
	if m != nil {
		m.GateDecisions.WithLabelValues(strconv.FormatBool(allowed), strconv.FormatBool(override)).Inc()
	}
}
