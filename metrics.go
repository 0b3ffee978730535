package siteengine

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects Prometheus counters for the HTTP surface and the
// tracking pipeline.
type Metrics struct {
	requests      *prometheus.CounterVec
	pageViews     *prometheus.CounterVec
	loginFailures prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siteengine_http_requests_total",
			Help: "HTTP responses by status code.",
		}, []string{"status"}),
		pageViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siteengine_page_views_total",
			Help: "Tracked page views by entity type.",
		}, []string{"entity_type"}),
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "siteengine_login_failures_total",
			Help: "Failed admin login attempts.",
		}),
	}
	reg.MustRegister(m.requests, m.pageViews, m.loginFailures)
	return m
}

// RecordRequest counts one HTTP response.
func (m *Metrics) RecordRequest(status int) {
	m.requests.WithLabelValues(strconv.Itoa(status)).Inc()
}

// RecordPageView counts one tracked page view.
func (m *Metrics) RecordPageView(entityType string) {
	m.pageViews.WithLabelValues(entityType).Inc()
}

// RecordLoginFailure counts one failed login.
func (m *Metrics) RecordLoginFailure() {
	m.loginFailures.Inc()
}
