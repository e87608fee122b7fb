// Package metrics exposes the Prometheus counters the API maintains.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service counters. A nil *Metrics is valid and records
// nothing, so components can be built without a registry in tests.
type Metrics struct {
	AuthFailures *prometheus.CounterVec
	AssetOps     *prometheus.CounterVec
	registry     *prometheus.Registry
}

// New creates the counters and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		AuthFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_auth_failures_total",
				Help: "Rejected authentication attempts by reason",
			},
			[]string{"reason"},
		),
		AssetOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfolio_asset_operations_total",
				Help: "Asset store operations by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		registry: reg,
	}
	reg.MustRegister(m.AuthFailures, m.AssetOps)
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

// AuthFailure counts one rejected request.
func (m *Metrics) AuthFailure(reason string) {
	if m == nil {
		return
	}
	m.AuthFailures.WithLabelValues(reason).Inc()
}

// AssetOp counts one asset store operation.
func (m *Metrics) AssetOp(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.AssetOps.WithLabelValues(op, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
