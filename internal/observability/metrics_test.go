package observability

import (
	"testing"
	"time"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordConnectionOpened()
	RecordRequest("add")
	RecordResponse("add")
	RecordDecodeFailure()
	RecordConnectionClosed()
	RecordHTTPRequest("GET", "/health", 200, 12*time.Millisecond)
}
