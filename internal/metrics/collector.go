package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for dispatched actions.
const (
	OutcomeSuccess = "success"
	OutcomePartial = "partial_success"
	OutcomeFailure = "failure"
)

// Collector tracks dispatched CPI actions on a private prometheus registry.
// A nil *Collector is valid and records nothing, so call sites don't guard
// for metrics being disabled.
type Collector struct {
	registry *prometheus.Registry

	actionCounter  *prometheus.CounterVec
	actionDuration *prometheus.HistogramVec
	errorCounter   *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		actionCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cpi",
			Name:      "actions_total",
			Help:      "Total dispatched CPI actions by action name and outcome",
		}, []string{"action", "outcome"}),
		actionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cpi",
			Name:      "action_duration_seconds",
			Help:      "CPI action latency distribution",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}, []string{"action"}),
		errorCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cpi",
			Name:      "errors_total",
			Help:      "Classified action failures by error kind",
		}, []string{"action", "kind"}),
	}

	registry.MustRegister(c.actionCounter, c.actionDuration, c.errorCounter)
	return c
}

// RecordAction records one completed dispatch.
func (c *Collector) RecordAction(action, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.actionCounter.WithLabelValues(action, outcome).Inc()
	c.actionDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordError records one classified failure.
func (c *Collector) RecordError(action, kind string) {
	if c == nil {
		return
	}
	c.errorCounter.WithLabelValues(action, kind).Inc()
}

// Registry exposes the private registry, primarily for tests.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler returns a prometheus scrape handler for this collector.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
