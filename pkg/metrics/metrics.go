package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "HTTP requests handled, by route pattern, method and status code",
		},
		[]string{"route", "method", "code"},
	)

	ResponseTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_response_time_seconds",
			Help:    "Response time in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// Mutations counts store writes per entity and action.
	Mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_mutations_total",
			Help: "Number of created, updated and deleted records",
		},
		[]string{"entity", "action"},
	)

	// Denied counts requests rejected by the secret visibility rule.
	Denied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_visibility_denied_total",
			Help: "Operations rejected because the note is secret and the caller is anonymous",
		},
		[]string{"operation"},
	)

	Subscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_live_subscribers",
			Help: "Connected websocket subscribers",
		},
	)
)

// Registry holds the dashboard collectors. It is separate from the default
// registry so tests can build several routers in one process.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(HTTPRequests, ResponseTime, Mutations, Denied, Subscribers)
	Registry.MustRegister(prometheus.NewGoCollector())
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func ObserveRequest(route, method string, code int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	ResponseTime.WithLabelValues(route).Observe(elapsed.Seconds())
}
