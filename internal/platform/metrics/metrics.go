package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the rocket tracker.
type Metrics struct {
	registry                *prometheus.Registry
	requestsTotal           prometheus.Counter
	errorsTotal             prometheus.Counter
	rateLimitedTotal        prometheus.Counter
	launchesReportedTotal   prometheus.Counter
	newsPostsTotal          prometheus.Counter
	missionsReportedTotal   prometheus.Counter
	vehiclesTracked         *prometheus.GaugeVec
	requestDurationsSeconds *prometheus.HistogramVec
}

// New creates and registers Prometheus metrics for the tracker.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_requests_total",
			Help: "Total number of HTTP requests received",
		}),
		errorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_errors_total",
			Help: "Total number of HTTP responses with error status (4xx or 5xx)",
		}),
		rateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		}),
		launchesReportedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_launches_reported_total",
			Help: "Total number of launch reports stored",
		}),
		newsPostsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_news_posts_total",
			Help: "Total number of news posts stored",
		}),
		missionsReportedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_missions_reported_total",
			Help: "Total number of mission reports stored",
		}),
		vehiclesTracked: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tracker_vehicles_tracked",
			Help: "Number of distinct vehicles seen across all launches",
		}, []string{"kind"}),
		requestDurationsSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tracker_request_duration_seconds",
			Help:    "HTTP request latency by method, route pattern and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.errorsTotal,
		m.rateLimitedTotal,
		m.launchesReportedTotal,
		m.newsPostsTotal,
		m.missionsReportedTotal,
		m.vehiclesTracked,
		m.requestDurationsSeconds,
	)

	return m
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncRateLimited increments the rate limited counter.
func (m *Metrics) IncRateLimited() {
	m.rateLimitedTotal.Inc()
}

// IncLaunchesReported increments the launch reports counter.
func (m *Metrics) IncLaunchesReported() {
	m.launchesReportedTotal.Inc()
}

// IncNewsPosted increments the news posts counter.
func (m *Metrics) IncNewsPosted() {
	m.newsPostsTotal.Inc()
}

// IncMissionsReported increments the mission reports counter.
func (m *Metrics) IncMissionsReported() {
	m.missionsReportedTotal.Inc()
}

// SetFleetSize sets the tracked vehicle gauges.
func (m *Metrics) SetFleetSize(boosters, ships int) {
	m.vehiclesTracked.WithLabelValues("booster").Set(float64(boosters))
	m.vehiclesTracked.WithLabelValues("ship").Set(float64(ships))
}

// ObserveRequest records the latency of one request.
func (m *Metrics) ObserveRequest(method, route, code string, seconds float64) {
	m.requestDurationsSeconds.WithLabelValues(method, route, code).Observe(seconds)
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values (e.g. fleet size).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
