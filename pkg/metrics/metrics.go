// Package metrics provides the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/nsyszr/rcm/pkg/model"
	"github.com/nsyszr/rcm/pkg/storage"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Metrics holds all collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	recordsCreated     *prometheus.CounterVec
	recordsDeleted     *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	storeErrors        *prometheus.CounterVec
	eventsByLevel      *prometheus.GaugeVec
	storeConnected     prometheus.GaugeFunc
}

// New creates and registers all collectors. state is sampled on every
// scrape to report whether the store is connected.
func New(state func() storage.State) (*Metrics, error) {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rcm_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rcm_http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	m.recordsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rcm_records_created_total",
			Help: "Total number of records created, by kind",
		},
		[]string{"kind"},
	)
	m.recordsDeleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rcm_records_deleted_total",
			Help: "Total number of records deleted, by kind",
		},
		[]string{"kind"},
	)
	m.validationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rcm_validation_failures_total",
			Help: "Total number of rejected create requests, by kind",
		},
		[]string{"kind"},
	)
	m.storeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rcm_store_errors_total",
			Help: "Total number of failed store operations",
		},
		[]string{"kind", "operation"},
	)
	m.eventsByLevel = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rcm_events_by_level",
			Help: "Number of events per severity level as of the last listing",
		},
		[]string{"level"},
	)
	m.storeConnected = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "rcm_store_connected",
			Help: "1 when the record store is connected, 0 otherwise",
		},
		func() float64 {
			if state != nil && state() == storage.StateConnected {
				return 1
			}
			return 0
		},
	)

	for _, c := range []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.recordsCreated,
		m.recordsDeleted,
		m.validationFailures,
		m.storeErrors,
		m.eventsByLevel,
		m.storeConnected,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register metric")
		}
	}

	return m, nil
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      log.StandardLogger(),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// ObserveRequest records one served HTTP request. path is the route
// pattern, not the raw URI, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, path string, status int, seconds float64) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

func (m *Metrics) RecordCreated(kind string) {
	m.recordsCreated.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordDeleted(kind string) {
	m.recordsDeleted.WithLabelValues(kind).Inc()
}

func (m *Metrics) ValidationFailed(kind string) {
	m.validationFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) StoreError(kind, operation string) {
	m.storeErrors.WithLabelValues(kind, operation).Inc()
}

// SetLevelCounts publishes the per-level event counts.
func (m *Metrics) SetLevelCounts(c model.LevelCounts) {
	for level, n := range c.ByLevel {
		m.eventsByLevel.WithLabelValues(string(level)).Set(float64(n))
	}
}
