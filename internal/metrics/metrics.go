package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes dashboard and generation counters to Prometheus.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal  *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	regenerationsTotal *prometheus.CounterVec
	generationDuration prometheus.Histogram
	snapshotEvents     prometheus.Gauge
	snapshotBuses      prometheus.Gauge
	snapshotCost       prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		regenerationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_regenerations_total",
			Help: "Total snapshot regenerations by outcome.",
		}, []string{"outcome"}),
		generationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleet_generation_duration_seconds",
			Help:    "Time spent generating and summarizing one snapshot.",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		snapshotEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_snapshot_events",
			Help: "Number of maintenance events in the current snapshot.",
		}),
		snapshotBuses: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_snapshot_buses",
			Help: "Number of buses in the current snapshot.",
		}),
		snapshotCost: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_snapshot_total_cost",
			Help: "Total maintenance cost of the current snapshot.",
		}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.regenerationsTotal,
		m.generationDuration,
		m.snapshotEvents,
		m.snapshotBuses,
		m.snapshotCost,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveGeneration records a successful regeneration.
func (m *Metrics) ObserveGeneration(d time.Duration, buses, events int, totalCost float64) {
	if m == nil {
		return
	}
	m.regenerationsTotal.WithLabelValues("ok").Inc()
	m.generationDuration.Observe(d.Seconds())
	m.snapshotBuses.Set(float64(buses))
	m.snapshotEvents.Set(float64(events))
	m.snapshotCost.Set(totalCost)
}

// ObserveGenerationError records a rejected regeneration.
func (m *Metrics) ObserveGenerationError() {
	if m == nil {
		return
	}
	m.regenerationsTotal.WithLabelValues("error").Inc()
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}
