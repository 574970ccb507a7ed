package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestDuration *prometheus.HistogramVec
	RequestTotal    *prometheus.CounterVec
	ErrorTotal      *prometheus.CounterVec

	// Domain metrics
	AppointmentsCreated prometheus.Counter
	SignIns             *prometheus.CounterVec
	Notifications       *prometheus.CounterVec
	CacheLookups        *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path", "status"}),
		RequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		ErrorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Total number of HTTP errors",
		}, []string{"method", "path", "class"}),
		AppointmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_created_total",
			Help:      "Total number of appointments booked through the public form",
		}),
		SignIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_signins_total",
			Help:      "Admin sign-in attempts by result",
		}, []string{"result"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by channel and outcome",
		}, []string{"channel", "outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Public read cache lookups by resource and result",
		}, []string{"resource", "result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestDuration,
		m.RequestTotal,
		m.ErrorTotal,
		m.AppointmentsCreated,
		m.SignIns,
		m.Notifications,
		m.CacheLookups,
	)

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// CacheHit and CacheMiss tolerate a nil receiver so services can run without metrics.
func (m *Metrics) CacheHit(resource string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(resource, "hit").Inc()
	}
}

func (m *Metrics) CacheMiss(resource string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(resource, "miss").Inc()
	}
}

func (m *Metrics) SignIn(result string) {
	if m != nil {
		m.SignIns.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) AppointmentCreated() {
	if m != nil {
		m.AppointmentsCreated.Inc()
	}
}

func (m *Metrics) Notification(channel, outcome string) {
	if m != nil {
		m.Notifications.WithLabelValues(channel, outcome).Inc()
	}
}
