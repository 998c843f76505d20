package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nskv"

// Command result labels.
const (
	ResultOK          = "ok"
	ResultMalformed   = "malformed"
	ResultUnknown     = "unknown"
	ResultDenied      = "denied"
	ResultRateLimited = "rate_limited"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	ConnectionsActive  prometheus.Gauge
	ConnectionsTotal   prometheus.Counter
	CommandsTotal      *prometheus.CounterVec
	AuthFailuresTotal  prometheus.Counter
	RoleElevationTotal prometheus.Counter
	HTTPRequestsTotal  *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with Go runtime and process
// collectors already registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Number of currently open protocol connections",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Total number of accepted protocol connections",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Total number of protocol commands by command and result",
		}, []string{"command", "result"}),
		AuthFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Total number of rejected AUTH attempts",
		}),
		RoleElevationTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "role_elevations_total",
			Help:      "Total number of successful AUTH commands",
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP API requests by route and status code",
		}, []string{"route", "code"}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ConnectionsActive,
		r.ConnectionsTotal,
		r.CommandsTotal,
		r.AuthFailuresTotal,
		r.RoleElevationTotal,
		r.HTTPRequestsTotal,
	)

	return r
}

// RegisterNamespaceCount exposes the number of namespaces, read lazily at
// scrape time.
func (r *Registry) RegisterNamespaceCount(count func() int) {
	if r == nil {
		return
	}
	r.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "namespaces",
		Help:      "Number of client namespaces held in memory",
	}, func() float64 {
		return float64(count())
	}))
}

// ConnOpened records an accepted connection.
func (r *Registry) ConnOpened() {
	if r == nil {
		return
	}
	r.ConnectionsTotal.Inc()
	r.ConnectionsActive.Inc()
}

// ConnClosed records a closed connection.
func (r *Registry) ConnClosed() {
	if r == nil {
		return
	}
	r.ConnectionsActive.Dec()
}

// ObserveCommand records one dispatched command.
func (r *Registry) ObserveCommand(command, result string) {
	if r == nil {
		return
	}
	r.CommandsTotal.WithLabelValues(command, result).Inc()
}

// ObserveAuth records the outcome of an AUTH attempt.
func (r *Registry) ObserveAuth(ok bool) {
	if r == nil {
		return
	}
	if ok {
		r.RoleElevationTotal.Inc()
		return
	}
	r.AuthFailuresTotal.Inc()
}

// ObserveHTTP records one HTTP API response.
func (r *Registry) ObserveHTTP(route, code string) {
	if r == nil {
		return
	}
	r.HTTPRequestsTotal.WithLabelValues(route, code).Inc()
}

// Gatherer returns the underlying gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.DefaultGatherer
	}
	return r.reg
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.Gatherer(), promhttp.HandlerOpts{Registry: r.reg})
}
