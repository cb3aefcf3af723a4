package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the integrity ledger.
type Metrics struct {
	BlocksAppended      prometheus.Counter
	IntegrityChecks     *prometheus.CounterVec
	CorruptedBlocks     prometheus.Gauge
	RecordVerifications *prometheus.CounterVec
}

// New registers ledger metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers ledger metrics on reg; tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BlocksAppended: factory.NewCounter(prometheus.CounterOpts{
			Name: "nyaya_ledger_blocks_appended_total",
			Help: "Total blocks appended to the integrity ledger",
		}),
		IntegrityChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nyaya_ledger_integrity_checks_total",
			Help: "Full chain verifications by outcome",
		}, []string{"valid"}),
		CorruptedBlocks: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nyaya_ledger_corrupted_blocks",
			Help: "Corrupted blocks found by the most recent chain verification",
		}),
		RecordVerifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nyaya_ledger_record_verifications_total",
			Help: "Single record verifications by authenticity",
		}, []string{"authentic"}),
	}
}

// IncBlocksAppended records a committed block.
func (m *Metrics) IncBlocksAppended() {
	if m != nil {
		m.BlocksAppended.Inc()
	}
}

// ObserveIntegrityCheck records a chain walk.
func (m *Metrics) ObserveIntegrityCheck(valid bool, corrupted int) {
	if m != nil {
		m.IntegrityChecks.WithLabelValues(strconv.FormatBool(valid)).Inc()
		m.CorruptedBlocks.Set(float64(corrupted))
	}
}

// IncRecordVerification records a record lookup.
func (m *Metrics) IncRecordVerification(authentic bool) {
	if m != nil {
		m.RecordVerifications.WithLabelValues(strconv.FormatBool(authentic)).Inc()
	}
}
