// Package metrics exposes the Prometheus collectors of the service. Every
// method is safe on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hunt"

// Resolution outcomes.
const (
	OutcomeResolved          = "resolved"
	OutcomeInvalid           = "invalid"
	OutcomeDuplicateLot      = "duplicate_lot"
	OutcomeDuplicateProperty = "duplicate_property"
	OutcomeError             = "error"
)

// Metrics owns a private registry so tests can create as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	resolutions   *prometheus.CounterVec
	lotsCreated   prometheus.Counter
	propsCreated  prometheus.Counter
	duplicityHits *prometheus.CounterVec
}

// New registers every collector on a fresh registry, including the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "address_resolutions_total",
			Help:      "Address resolutions by outcome.",
		}, []string{"outcome"}),
		lotsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lots_created_total",
			Help:      "Lots created by the resolver.",
		}),
		propsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "properties_created_total",
			Help:      "Properties created by the resolver.",
		}),
		duplicityHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicity_conflicts_total",
			Help:      "Targets rejected by the duplicity guard, by reason.",
		}, []string{"reason"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.resolutions,
		m.lotsCreated,
		m.propsCreated,
		m.duplicityHits,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Resolution counts one resolver call by outcome.
func (m *Metrics) Resolution(outcome string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(outcome).Inc()
}

// LotCreated counts a lot created by the resolver.
func (m *Metrics) LotCreated() {
	if m == nil {
		return
	}
	m.lotsCreated.Inc()
}

// PropertyCreated counts a property created by the resolver.
func (m *Metrics) PropertyCreated() {
	if m == nil {
		return
	}
	m.propsCreated.Inc()
}

// DuplicityConflict counts a target rejected with reason.
func (m *Metrics) DuplicityConflict(reason string) {
	if m == nil {
		return
	}
	m.duplicityHits.WithLabelValues(reason).Inc()
}
