// Package metrics collects Prometheus metrics for the session core and
// exposes them for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Recorder is what the services report to.
type Recorder interface {
	RecordSessionTransition(op string, err error)
	RecordResolverRequest(step string, d time.Duration, err error)
	SetSavedAccounts(n int)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	transitions     *prometheus.CounterVec
	resolverCalls   *prometheus.CounterVec
	resolverLatency *prometheus.HistogramVec
	savedAccounts   prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acadex_session_transitions_total",
			Help: "Session state transitions by operation and result.",
		}, []string{"op", "result"}),
		resolverCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acadex_resolver_requests_total",
			Help: "Identity resolver backend calls by step and result.",
		}, []string{"step", "result"}),
		resolverLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "acadex_resolver_latency_seconds",
			Help:    "Identity resolver backend call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"step"}),
		savedAccounts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "acadex_saved_accounts",
			Help: "Number of accounts saved on the device.",
		}),
	}

	reg.MustRegister(
		c.transitions,
		c.resolverCalls,
		c.resolverLatency,
		c.savedAccounts,
	)

	return c
}

func (c *Collector) RecordSessionTransition(op string, err error) {
	c.transitions.WithLabelValues(op, result(err)).Inc()
}

func (c *Collector) RecordResolverRequest(step string, d time.Duration, err error) {
	c.resolverCalls.WithLabelValues(step, result(err)).Inc()
	c.resolverLatency.WithLabelValues(step).Observe(d.Seconds())
}

func (c *Collector) SetSavedAccounts(n int) {
	c.savedAccounts.Set(float64(n))
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordSessionTransition(string, error)               {}
func (Nop) RecordResolverRequest(string, time.Duration, error) {}
func (Nop) SetSavedAccounts(int)                               {}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NewServeMux serves the scrape handler on /metrics.
func NewServeMux(gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
