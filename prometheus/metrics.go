package prometheus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Backend call metrics
	BackendCallsTotal    *prometheus.CounterVec
	BackendCallDuration  *prometheus.HistogramVec
	CatalogLoadErrors    *prometheus.CounterVec
	AuthAttemptsCounter  *prometheus.CounterVec
	CheckoutCounter      *prometheus.CounterVec
	BoardPollsCounter    *prometheus.CounterVec
	OpenBoardsGauge      prometheus.Gauge
	BoardQueueGauge      prometheus.Gauge
	CartLinesHistogram   prometheus.Histogram
	CriticalProductGauge prometheus.Gauge

	initOnce sync.Once
)

// InitMetrics registers the metrics under the given prefix. Later calls are no-ops.
func InitMetrics(prefix string) {
	initOnce.Do(func() {
		HttpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HttpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		BackendCallsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_backend_calls_total",
				Help: "Total number of calls to the padoca backend",
			},
			[]string{"operation", "outcome"},
		)

		BackendCallDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_backend_call_duration_seconds",
				Help:    "Duration of calls to the padoca backend in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		)

		CatalogLoadErrors = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_catalog_load_errors_total",
				Help: "Catalog loads that failed, by side",
			},
			[]string{"side"},
		)

		AuthAttemptsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_auth_attempts_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		)

		CheckoutCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_checkouts_total",
				Help: "Order submissions by kind and outcome",
			},
			[]string{"kind", "outcome"},
		)

		BoardPollsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_board_polls_total",
				Help: "Order queue polls by outcome",
			},
			[]string{"outcome"},
		)

		OpenBoardsGauge = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + "_open_boards",
				Help: "Staff boards currently polling",
			},
		)

		BoardQueueGauge = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + "_board_queue_length",
				Help: "Open orders seen by the latest successful poll",
			},
		)

		CartLinesHistogram = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    prefix + "_checkout_cart_lines",
				Help:    "Number of lines in carts at checkout",
				Buckets: []float64{1, 2, 3, 5, 8, 13},
			},
		)

		CriticalProductGauge = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + "_critical_products",
				Help: "Products at or below their minimum stock in the latest catalog snapshot",
			},
		)
	})
}

// TrackBackendCall returns a function that records the outcome and duration of a backend call
func TrackBackendCall(operation string) func(err error) {
	start := time.Now()
	return func(err error) {
		if BackendCallsTotal == nil {
			return
		}
		BackendCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		BackendCallsTotal.WithLabelValues(operation, outcome(err)).Inc()
	}
}

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if HttpRequestsTotal == nil {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordCatalogError increments the failure counter for one side of a catalog load
func RecordCatalogError(side string) {
	if CatalogLoadErrors == nil {
		return
	}
	CatalogLoadErrors.WithLabelValues(side).Inc()
}

// RecordCriticalProducts sets the critical stock gauge
func RecordCriticalProducts(n int) {
	if CriticalProductGauge == nil {
		return
	}
	CriticalProductGauge.Set(float64(n))
}

// RecordAuthAttempt increments the login counter
func RecordAuthAttempt(err error) {
	if AuthAttemptsCounter == nil {
		return
	}
	AuthAttemptsCounter.WithLabelValues(outcome(err)).Inc()
}

// RecordCheckout increments the order submission counter
func RecordCheckout(kind string, lines int, err error) {
	if CheckoutCounter == nil {
		return
	}
	CheckoutCounter.WithLabelValues(kind, outcome(err)).Inc()
	if err == nil {
		CartLinesHistogram.Observe(float64(lines))
	}
}

// RecordBoardPoll increments the poll counter and, on success, the queue gauge
func RecordBoardPoll(queueLength int, err error) {
	if BoardPollsCounter == nil {
		return
	}
	BoardPollsCounter.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		BoardQueueGauge.Set(float64(queueLength))
	}
}

// BoardOpened and BoardClosed track live pollers
func BoardOpened() {
	if OpenBoardsGauge != nil {
		OpenBoardsGauge.Inc()
	}
}

func BoardClosed() {
	if OpenBoardsGauge != nil {
		OpenBoardsGauge.Dec()
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
