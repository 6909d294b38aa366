package metrics

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pulseboard/backend/internal/stream"
)

var (
	DataRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulseboard_data_requests_total",
			Help: "Total dashboard data requests",
		},
		[]string{"status"},
	)

	InsightQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulseboard_insight_queries_total",
			Help: "Insight queries by matched topic",
		},
		[]string{"topic"},
	)

	InsightFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulseboard_insight_failures_total",
			Help: "Insight queries that failed",
		},
		[]string{"reason"},
	)

	InsightDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pulseboard_insight_duration_seconds",
			Help:    "Insight request duration in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 1.5, 2, 5},
		},
	)

	InsightConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pulseboard_insight_confidence",
			Help:    "Reported insight confidence",
			Buckets: []float64{80, 84, 88, 92, 96, 100},
		},
	)

	StreamTicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulseboard_stream_ticks_total",
			Help: "Feed refreshes by kind",
		},
		[]string{"kind"},
	)

	MetricValue = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pulseboard_stream_metric_value",
			Help: "Current simulated metric value",
		},
		[]string{"metric"},
	)

	MetricChange = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pulseboard_stream_metric_change",
			Help: "Current simulated metric percent change",
		},
		[]string{"metric"},
	)

	WebSocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pulseboard_websocket_clients",
			Help: "Connected live feed clients",
		},
	)

	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulseboard_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"path"},
	)

	CounterErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulseboard_topic_counter_errors_total",
			Help: "Topic counter store failures",
		},
		[]string{"op"},
	)

	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pulseboard_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Collectors work
// unregistered, so tests never need to call it.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			DataRequests,
			InsightQueries,
			InsightFailures,
			InsightDuration,
			InsightConfidence,
			StreamTicks,
			MetricValue,
			MetricChange,
			WebSocketClients,
			RateLimited,
			CounterErrors,
			BreakerState,
		)
	})
}

// ObserveFrame records a feed refresh. It is the feed's OnRefresh hook.
func ObserveFrame(kind string, f stream.Frame) {
	StreamTicks.WithLabelValues(kind).Inc()
	for _, m := range f.Metrics.Metrics {
		MetricValue.WithLabelValues(m.ID).Set(m.Value)
		MetricChange.WithLabelValues(m.ID).Set(m.Change)
	}
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
