package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_CuentaEventos(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedger(reg)

	m.Event("apply_event", ResultOK)
	m.Event("apply_event", ResultOK)
	m.Retry("apply_event")
	m.LowStock()
	m.Reversal(ResultRejected)

	families, err := reg.Gather()
	require.NoError(t, err)

	got := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				got[f.GetName()] += c.GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, got["ledger_events_total"])
	assert.Equal(t, 1.0, got["ledger_retries_total"])
	assert.Equal(t, 1.0, got["ledger_low_stock_signals_total"])
	assert.Equal(t, 1.0, got["ledger_reversals_total"])
}

func TestLedger_NilNoFalla(t *testing.T) {
	var m *Ledger
	assert.NotPanics(t, func() {
		m.Event("x", ResultOK)
		m.Retry("x")
		m.LowStock()
		m.Reversal(ResultOK)
	})
}
