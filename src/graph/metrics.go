package graph

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Execution outcomes.
const (
	outcomeSuccess  = "success"
	outcomeBlocked  = "blocked"
	outcomeDisabled = "disabled"
	outcomeRefused  = "refused"
	outcomeFailed   = "failed"
	outcomeInvalid  = "invalid"
)

type metrics struct {
	registry *prometheus.Registry

	executions *prometheus.CounterVec
	foreign    *prometheus.CounterVec
	reserved   prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dcr",
			Name:      "executions_total",
			Help:      "Executions requested on local events, by outcome.",
		}, []string{"outcome"}),
		foreign: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dcr",
			Name:      "foreign_requests_total",
			Help:      "Requests received from other main nodes, by command and outcome.",
		}, []string{"command", "outcome"}),
		reserved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dcr",
			Name:      "reserved_events",
			Help:      "Local events currently reserved by an execution.",
		}),
	}

	m.registry.MustRegister(m.executions, m.foreign, m.reserved)

	return m
}

func (m *metrics) execution(outcome string) {
	m.executions.WithLabelValues(outcome).Inc()
}

func (m *metrics) foreignRequest(command string, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailed
	}
	m.foreign.WithLabelValues(command, outcome).Inc()
}

// Registry returns the registry holding the graph's collectors.
func (g *Graph) Registry() *prometheus.Registry {
	return g.metrics.registry
}
