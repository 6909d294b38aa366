package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/pulseboard/backend/internal/stream"
)

func TestObserveFrame(t *testing.T) {
	before := testutil.ToFloat64(StreamTicks.WithLabelValues("metrics"))

	ObserveFrame("metrics", stream.Frame{Metrics: stream.Snapshot{Metrics: []stream.Metric{
		{ID: "revenue", Value: 45231.89, Change: 20.1},
		{ID: "users", Value: 2350, Change: -1.5},
	}}})

	assert.Equal(t, before+1, testutil.ToFloat64(StreamTicks.WithLabelValues("metrics")))
	assert.Equal(t, 45231.89, testutil.ToFloat64(MetricValue.WithLabelValues("revenue")))
	assert.Equal(t, -1.5, testutil.ToFloat64(MetricChange.WithLabelValues("users")))
}

func TestInitIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}
