// Package metrics provides Prometheus metrics for the storefront backend
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Variant resolution outcomes
const (
	OutcomeMatched          = "matched"
	OutcomeNoMatch          = "no_match"
	OutcomeMissingAttribute = "missing_attribute"
	OutcomeError            = "error"
)

// Metrics holds all Prometheus metrics on a dedicated registry
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal       *prometheus.CounterVec
	HTTPRequestDuration     *prometheus.HistogramVec
	VariantResolutionsTotal *prometheus.CounterVec
	CatalogRequestsTotal    *prometheus.CounterVec
}

// New creates and registers all metrics
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		VariantResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_variant_resolutions_total",
				Help: "Total number of variant resolutions by outcome",
			},
			[]string{"outcome"},
		),
		CatalogRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_catalog_requests_total",
				Help: "Total number of upstream catalog requests",
			},
			[]string{"status"},
		),
	}
}

// RecordHTTPRequest records a served request
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordVariantResolution records the outcome of a variant lookup
func (m *Metrics) RecordVariantResolution(outcome string) {
	m.VariantResolutionsTotal.WithLabelValues(outcome).Inc()
}

// RecordCatalogRequest records an upstream catalog call
func (m *Metrics) RecordCatalogRequest(status string) {
	m.CatalogRequestsTotal.WithLabelValues(status).Inc()
}

// Registry exposes the underlying registry for tests and custom collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
