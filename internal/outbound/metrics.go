package outbound

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	resultSuccess = "success"
	resultFailed  = "failed"
)

// Metrics records outbound activity in Prometheus.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	sends     *prom.CounterVec
	connects  *prom.CounterVec
	connected *prom.GaugeVec
}

// NewMetrics constructs the outbound metrics and registers them on reg.
// A nil reg gets a private registry.
func NewMetrics(reg prom.Registerer) *Metrics {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	m := &Metrics{
		sends: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "homenet",
			Name:      "outbound_sends_total",
			Help:      "Data-object sends per target by result",
		}, []string{"target", "result"}),
		connects: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "homenet",
			Name:      "outbound_connects_total",
			Help:      "Connection attempts per target by result",
		}, []string{"target", "result"}),
		connected: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "homenet",
			Name:      "outbound_connected",
			Help:      "1 while the target holds a connection",
		}, []string{"target"}),
	}
	reg.MustRegister(m.sends, m.connects, m.connected)
	return m
}

func resultLabel(ok bool) string {
	if ok {
		return resultSuccess
	}
	return resultFailed
}

func (m *Metrics) incSend(target string, ok bool) {
	if m == nil {
		return
	}
	m.sends.WithLabelValues(target, resultLabel(ok)).Inc()
}

func (m *Metrics) incConnect(target string, ok bool) {
	if m == nil {
		return
	}
	m.connects.WithLabelValues(target, resultLabel(ok)).Inc()
}

func (m *Metrics) setConnected(target string, connected bool) {
	if m == nil {
		return
	}
	v := 0.0
	if connected {
		v = 1
	}
	m.connected.WithLabelValues(target).Set(v)
}
