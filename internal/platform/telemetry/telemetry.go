// Package telemetry exposes Prometheus metrics for the scheduling API: HTTP
// server metrics from an Echo middleware, domain counters fed by the
// account and scheduling services, and connection pool gauges.
package telemetry

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/db"
)

const namespace = "sghss"

// Provider owns the collectors registered for one server instance.
type Provider struct {
	gatherer prometheus.Gatherer

	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	active         prometheus.Gauge
	logins         *prometheus.CounterVec
	apptsCreated   *prometheus.CounterVec
	apptsCancelled *prometheus.CounterVec
}

// NewProvider registers the collectors on reg. Use prometheus.NewRegistry in
// tests so each provider starts from zero.
func NewProvider(reg *prometheus.Registry) *Provider {
	p := &Provider{
		gatherer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Requests currently being served.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		apptsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_created_total",
			Help:      "Appointments booked by modality.",
		}, []string{"modality"}),
		apptsCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_cancelled_total",
			Help:      "Appointments cancelled by resulting status.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		p.requests,
		p.duration,
		p.active,
		p.logins,
		p.apptsCreated,
		p.apptsCancelled,
	)
	return p
}

// RegisterPool exports connection pool gauges read from stats at scrape time.
func (p *Provider) RegisterPool(reg prometheus.Registerer, stats func() *db.PoolStats) {
	gauge := func(name, help string, read func(*db.PoolStats) int32) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db_pool",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(read(stats())) })
	}
	reg.MustRegister(
		gauge("total_connections", "Open connections in the pool.", func(s *db.PoolStats) int32 { return s.TotalConns }),
		gauge("idle_connections", "Idle connections in the pool.", func(s *db.PoolStats) int32 { return s.IdleConns }),
		gauge("acquired_connections", "Connections checked out of the pool.", func(s *db.PoolStats) int32 { return s.AcquiredConns }),
	)
}

func (p *Provider) ObserveLogin(outcome string) {
	p.logins.WithLabelValues(outcome).Inc()
}

func (p *Provider) AppointmentCreated(modality string) {
	p.apptsCreated.WithLabelValues(modality).Inc()
}

func (p *Provider) AppointmentCancelled(status string) {
	p.apptsCancelled.WithLabelValues(status).Inc()
}

// MetricsMiddleware records request counts and latency. Routes are labelled
// by their registered pattern so ids do not explode cardinality.
func (p *Provider) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p.active.Inc()
			start := time.Now()

			err := next(c)

			p.active.Dec()
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			method := c.Request().Method
			p.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			p.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// PrometheusHandler serves the registry in the Prometheus exposition format.
func (p *Provider) PrometheusHandler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{}))
}
