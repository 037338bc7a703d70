package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSettlementCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.SettlementCommitted("SOL")
	m.SettlementCommitted("SOL")
	m.SettlementFailed("tx_not_found")

	if got := testutil.ToFloat64(m.settlements.WithLabelValues("SOL")); got != 2 {
		t.Fatalf("expected 2 settlements, got %v", got)
	}
	if got := testutil.ToFloat64(m.settlementFailures.WithLabelValues("tx_not_found")); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RequestCreated("SOL")
	m.RequestsExpired(3)
	m.SettlementCommitted("USDC")
	m.SettlementFailed("expired")
	m.ObserveLedgerLookup(0.1)
	m.LedgerError()
}
