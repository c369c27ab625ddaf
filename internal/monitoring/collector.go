// Package monitoring exposes dashboard metrics to Prometheus.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "launch_dashboard"

// Collector holds the dashboard's Prometheus instruments on a private registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	viewBuilds     *prometheus.CounterVec
	viewDuration   *prometheus.HistogramVec
	emptyViews     *prometheus.CounterVec
	activeSessions prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	datasetRecords prometheus.Gauge
}

// NewCollector creates and registers all dashboard metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		viewBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_builds_total",
			Help:      "Number of view recomputations by view.",
		}, []string{"view"}),
		viewDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_build_seconds",
			Help:      "Time spent filtering and aggregating a view.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"view"}),
		emptyViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_views_total",
			Help:      "Number of views computed with no data to display.",
		}, []string{"view"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of live dashboard sessions.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		datasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Number of launch records loaded at startup.",
		}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.viewBuilds,
		c.viewDuration,
		c.emptyViews,
		c.activeSessions,
		c.httpRequests,
		c.datasetRecords,
	)
	return c
}

// Registry returns the registry holding every dashboard metric.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveView records one view recomputation.
func (c *Collector) ObserveView(view string, d time.Duration, empty bool) {
	if c == nil {
		return
	}
	c.viewBuilds.WithLabelValues(view).Inc()
	c.viewDuration.WithLabelValues(view).Observe(d.Seconds())
	if empty {
		c.emptyViews.WithLabelValues(view).Inc()
	}
}

// SessionOpened increments the live session gauge.
func (c *Collector) SessionOpened() {
	if c == nil {
		return
	}
	c.activeSessions.Inc()
}

// SessionClosed decrements the live session gauge.
func (c *Collector) SessionClosed() {
	if c == nil {
		return
	}
	c.activeSessions.Dec()
}

// ObserveRequest counts one served HTTP request.
func (c *Collector) ObserveRequest(route, method string, status int) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

// SetDatasetRecords records the size of the loaded table.
func (c *Collector) SetDatasetRecords(n int) {
	if c == nil {
		return
	}
	c.datasetRecords.Set(float64(n))
}
