package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pulseboard/backend/internal/dashboard"
	"github.com/pulseboard/backend/internal/insights"
	"github.com/pulseboard/backend/internal/metrics"
	"github.com/pulseboard/backend/pkg/logger"
)

const insightFailure = "Failed to generate insights"

type InsightConfig struct {
	Delay time.Duration
	// MaxQuestionLength is in characters; zero means unlimited.
	MaxQuestionLength int
	// Timeout bounds one question including the delay; zero means none.
	Timeout time.Duration
	// Done aborts pending questions when closed, on shutdown.
	Done <-chan struct{}
}

type InsightHandler struct {
	responder *insights.Responder
	counter   insights.Counter
	catalog   insights.Catalog
	cfg       InsightConfig
}

func NewInsightHandler(responder *insights.Responder, counter insights.Counter, catalog insights.Catalog, cfg InsightConfig) *InsightHandler {
	return &InsightHandler{
		responder: responder,
		counter:   counter,
		catalog:   catalog,
		cfg:       cfg,
	}
}

type insightResponse struct {
	Response    string   `json:"response"`
	Confidence  int      `json:"confidence"`
	Timestamp   string   `json:"timestamp"`
	Suggestions []string `json:"suggestions"`
}

func newInsightResponse(res insights.Result) insightResponse {
	return insightResponse{
		Response:    res.Response,
		Confidence:  res.Confidence,
		Timestamp:   res.Timestamp.Format(dashboard.TimestampLayout),
		Suggestions: res.Suggestions,
	}
}

func (h *InsightHandler) HandleQuestion(c *fiber.Ctx) error {
	start := time.Now()

	question, err := insights.DecodeQuestion(c.Body())
	if err == nil && h.cfg.MaxQuestionLength > 0 && utf8.RuneCountInString(question) > h.cfg.MaxQuestionLength {
		err = fmt.Errorf("%w: question exceeds %d characters", insights.ErrInvalidInput, h.cfg.MaxQuestionLength)
	}
	if err != nil {
		return h.fail(c, err)
	}

	ctx, cancel := h.questionContext(c.UserContext())
	defer cancel()

	res, err := h.responder.AnswerAfter(ctx, question, h.cfg.Delay)
	if err != nil {
		return h.fail(c, err)
	}

	topic := recordHit(ctx, h.counter, res)
	metrics.InsightConfidence.Observe(float64(res.Confidence))
	metrics.InsightDuration.Observe(time.Since(start).Seconds())

	logger.Debug("Answered insight question",
		zap.String("id", res.ID),
		zap.String("topic", topic),
		zap.Int("confidence", res.Confidence),
	)

	return c.JSON(newInsightResponse(res))
}

func (h *InsightHandler) questionContext(parent context.Context) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if h.cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, h.cfg.Timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}

	if h.cfg.Done != nil {
		go func() {
			select {
			case <-h.cfg.Done:
				cancel()
			case <-ctx.Done():
			}
		}()
	}
	return ctx, cancel
}

func (h *InsightHandler) fail(c *fiber.Ctx, err error) error {
	reason := "internal"
	if errors.Is(err, insights.ErrInvalidInput) {
		reason = "invalid_input"
	}
	metrics.InsightFailures.WithLabelValues(reason).Inc()
	logger.Error("Failed to generate insights", zap.String("reason", reason), zap.Error(err))

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": insightFailure,
	})
}

func (h *InsightHandler) GetTopics(c *fiber.Ctx) error {
	counts, err := h.counter.Counts(c.UserContext())
	if err != nil {
		logger.Warn("Failed to read topic counts", zap.Error(err))
		metrics.CounterErrors.WithLabelValues("counts").Inc()
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Topic statistics unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"topics": insights.Stats(h.responder.Topics(), counts),
	})
}

func (h *InsightHandler) ResetTopics(c *fiber.Ctx) error {
	if err := h.counter.Reset(c.UserContext()); err != nil {
		logger.Warn("Failed to reset topic counts", zap.Error(err))
		metrics.CounterErrors.WithLabelValues("reset").Inc()
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Topic statistics unavailable",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *InsightHandler) GetCatalog(c *fiber.Ctx) error {
	return c.JSON(h.catalog)
}
