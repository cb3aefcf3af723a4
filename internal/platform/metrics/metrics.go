// Package metrics owns the process Prometheus registry and the /metrics
// endpoint. Module metrics register against Registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the registry and process-level metrics.
type Metrics struct {
	Registry  *prometheus.Registry
	BuildInfo *prometheus.GaugeVec
	Ready     prometheus.Gauge
}

// New creates a registry with Go runtime and process collectors.
func New(version string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	m := &Metrics{
		Registry: reg,
		BuildInfo: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "nyaya_build_info",
			Help: "Build metadata, always 1",
		}, []string{"version"}),
		Ready: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nyaya_ready",
			Help: "1 once all dependencies are wired and the server is listening",
		}),
	}
	m.BuildInfo.WithLabelValues(version).Set(1)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *Metrics) SetReady(ready bool) {
	if m == nil {
		return
	}
	if ready {
		m.Ready.Set(1)
	} else {
		m.Ready.Set(0)
	}
}
