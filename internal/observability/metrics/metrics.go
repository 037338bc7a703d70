package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

const namespace = "nearme"

// Metrics captures payment lifecycle health signals.
type Metrics struct {
	requestsCreated    *prometheus.CounterVec
	requestsExpired    prometheus.Counter
	settlements        *prometheus.CounterVec
	settlementFailures *prometheus.CounterVec
	ledgerLookups      prometheus.Histogram
	ledgerErrors       prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_requests_created_total",
			Help:      "Payment requests created, by currency.",
		}, []string{"currency"}),
		requestsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_requests_expired_total",
			Help:      "Payment requests transitioned to expired.",
		}),
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_total",
			Help:      "Settlements committed, by currency.",
		}, []string{"currency"}),
		settlementFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_failures_total",
			Help:      "Settlement attempts rejected, by reason.",
		}, []string{"reason"}),
		ledgerLookups: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ledger_lookup_duration_seconds",
			Help:      "Latency of ledger transaction lookups.",
			Buckets:   prometheus.DefBuckets,
		}),
		ledgerErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_lookup_errors_total",
			Help:      "Ledger lookups that failed after retries.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.requestsCreated,
			m.requestsExpired,
			m.settlements,
			m.settlementFailures,
			m.ledgerLookups,
			m.ledgerErrors,
		)
	}
	return m
}

func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}

func (m *Metrics) RequestCreated(currency string) {
	if m == nil {
		return
	}
	m.requestsCreated.WithLabelValues(currency).Inc()
}

func (m *Metrics) RequestsExpired(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.requestsExpired.Add(float64(n))
}

func (m *Metrics) SettlementCommitted(currency string) {
	if m == nil {
		return
	}
	m.settlements.WithLabelValues(currency).Inc()
}

func (m *Metrics) SettlementFailed(reason string) {
	if m == nil {
		return
	}
	m.settlementFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveLedgerLookup(seconds float64) {
	if m == nil {
		return
	}
	m.ledgerLookups.Observe(seconds)
}

func (m *Metrics) LedgerError() {
	if m == nil {
		return
	}
	m.ledgerErrors.Inc()
}

var Module = fx.Module("metrics",
	fx.Provide(NewDefault),
)
