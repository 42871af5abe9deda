package hubsdk

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors a Client reports into.
//
// Collected series:
//   - campus_hubsdk_requests_total{method,status}
//   - campus_hubsdk_request_duration_seconds{method}
//   - campus_hubsdk_request_errors_total{kind}
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// NewMetrics registers the client collectors with reg. Registering twice with
// the same registry panics, so build one Metrics per registry and share it.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus",
			Subsystem: "hubsdk",
			Name:      "requests_total",
			Help:      "API calls completed, by method and HTTP status (0 when no response arrived).",
		}, []string{"method", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "campus",
			Subsystem: "hubsdk",
			Name:      "request_duration_seconds",
			Help:      "Time from sending an API call to reading its full response.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus",
			Subsystem: "hubsdk",
			Name:      "request_errors_total",
			Help:      "Failed API calls by failure kind.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) observe(method string, status int, took time.Duration, err error) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method).Observe(took.Seconds())

	if e, ok := AsError(err); ok {
		m.errors.WithLabelValues(e.Kind.String()).Inc()
	}
}
