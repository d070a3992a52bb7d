package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "atelier",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint, method and status.",
		},
		[]string{"endpoint", "method", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "atelier",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	storeUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "atelier",
			Name:      "store_up",
			Help:      "Whether the last document store ping succeeded.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, storeUp)
	})
}

// ObserveHTTP records one finished request.
func ObserveHTTP(endpoint, method string, status int, dur time.Duration) {
	httpRequests.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(endpoint).Observe(dur.Seconds())
}

// SetStoreUp flips the store health gauge.
func SetStoreUp(up bool) {
	if up {
		storeUp.Set(1)
		return
	}
	storeUp.Set(0)
}
