package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/pulseboard/backend/internal/insights"
	"github.com/pulseboard/backend/internal/metrics"
	"github.com/pulseboard/backend/pkg/logger"
)

// recordHit counts an answered question. Store failures are logged and
// never reach the caller.
func recordHit(ctx context.Context, counter insights.Counter, res insights.Result) string {
	topic := insights.CounterKey(res)
	if err := counter.Increment(ctx, topic); err != nil {
		logger.Warn("Failed to record topic hit", zap.String("topic", topic), zap.Error(err))
		metrics.CounterErrors.WithLabelValues("increment").Inc()
	}
	metrics.InsightQueries.WithLabelValues(topic).Inc()
	return topic
}
