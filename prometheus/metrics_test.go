package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecording(t *testing.T) {
	// Helpers are no-ops until the metrics are registered
	if CheckoutCounter == nil {
		RecordCheckout("BALCAO", 2, nil)
		BoardOpened()
	}

	InitMetrics("padoca_test")
	InitMetrics("padoca_test")

	RecordCheckout("BALCAO", 2, nil)
	RecordCheckout("BALCAO", 2, errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(CheckoutCounter.WithLabelValues("BALCAO", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(CheckoutCounter.WithLabelValues("BALCAO", "error")))

	RecordBoardPoll(4, nil)
	RecordBoardPoll(0, errors.New("down"))
	assert.Equal(t, 4.0, testutil.ToFloat64(BoardQueueGauge))

	BoardOpened()
	BoardOpened()
	BoardClosed()
	assert.Equal(t, 1.0, testutil.ToFloat64(OpenBoardsGauge))

	done := TrackBackendCall("list_products")
	done(nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(BackendCallsTotal.WithLabelValues("list_products", "success")))

	RecordHTTPRequest("GET", "/api/menu", "200", 10*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("GET", "/api/menu", "200")))

	RecordCriticalProducts(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(CriticalProductGauge))
}
