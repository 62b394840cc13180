// Package metrics exposes Prometheus collectors for the prompt API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered for one server instance.
type Metrics struct {
	registry *prometheus.Registry

	// listRequests counts list queries.
	// Labels:
	//   - degraded: "true" when the store was unavailable and an empty page was served
	listRequests *prometheus.CounterVec

	// mutations counts prompt writes.
	// Labels:
	//   - op: create, create_anonymous, create_assisted, update, like, copy
	//   - result: ok or the error code
	mutations *prometheus.CounterVec

	// analyses counts prompt analyses by the path that produced them.
	analyses *prometheus.CounterVec

	requestDuration *prometheus.HistogramVec
}

// New creates collectors on a private registry that also carries the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		listRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prompthub_list_requests_total",
				Help: "Total number of prompt list queries",
			},
			[]string{"degraded"},
		),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prompthub_mutations_total",
				Help: "Total number of prompt mutations by operation and result",
			},
			[]string{"op", "result"},
		),
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prompthub_analyses_total",
				Help: "Total number of prompt analyses by source",
			},
			[]string{"source"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "prompthub_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "route", "status"},
		),
	}

	reg.MustRegister(
		m.listRequests,
		m.mutations,
		m.analyses,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// RecordList records a list query.
func (m *Metrics) RecordList(degraded bool) {
	m.listRequests.WithLabelValues(strconv.FormatBool(degraded)).Inc()
}

// RecordMutation records a write with its outcome.
func (m *Metrics) RecordMutation(op, result string) {
	m.mutations.WithLabelValues(op, result).Inc()
}

// RecordAnalysis records which path produced an analysis.
func (m *Metrics) RecordAnalysis(source string) {
	m.analyses.WithLabelValues(source).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware observes request durations labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
