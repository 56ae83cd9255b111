// Package metrics expone los contadores Prometheus del motor de inventario.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Resultados de una operación del motor.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// Ledger contadores del motor. Un *Ledger nil es válido y no registra nada.
type Ledger struct {
	events    *prometheus.CounterVec
	retries   *prometheus.CounterVec
	lowStock  prometheus.Counter
	reversals *prometheus.CounterVec
}

var (
	defaultOnce   sync.Once
	defaultLedger *Ledger
)

// NewLedger registra los contadores en registerer; con nil usa el registro global una sola vez.
func NewLedger(registerer prometheus.Registerer) *Ledger {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultLedger = build(prometheus.DefaultRegisterer)
		})
		return defaultLedger
	}
	return build(registerer)
}

func build(reg prometheus.Registerer) *Ledger {
	m := &Ledger{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_events_total",
			Help: "Operaciones del motor de inventario por tipo y resultado.",
		}, []string{"type", "result"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_retries_total",
			Help: "Reintentos por conflicto de versión o almacenamiento no disponible.",
		}, []string{"op"}),
		lowStock: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_low_stock_signals_total",
			Help: "Cruces descendentes del stock mínimo.",
		}),
		reversals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_reversals_total",
			Help: "Reversiones de movimientos por resultado.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.events, m.retries, m.lowStock, m.reversals)
	return m
}

// Event cuenta una operación terminada.
func (m *Ledger) Event(op, result string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(op, result).Inc()
}

// Retry cuenta un reintento de op.
func (m *Ledger) Retry(op string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(op).Inc()
}

// LowStock cuenta una señal de stock bajo.
func (m *Ledger) LowStock() {
	if m == nil {
		return
	}
	m.lowStock.Inc()
}

// Reversal cuenta una reversión.
func (m *Ledger) Reversal(result string) {
	if m == nil {
		return
	}
	m.reversals.WithLabelValues(result).Inc()
}
