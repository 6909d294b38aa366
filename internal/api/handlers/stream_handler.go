package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pulseboard/backend/internal/stream"
)

type StreamHandler struct {
	feed *stream.Feed
}

func NewStreamHandler(feed *stream.Feed) *StreamHandler {
	return &StreamHandler{
		feed: feed,
	}
}

func (h *StreamHandler) GetLive(c *fiber.Ctx) error {
	return c.JSON(h.feed.Frame())
}

// Refresh ticks the feed on demand. The optional kind query selects
// "metrics", "charts" or "all" (the default).
func (h *StreamHandler) Refresh(c *fiber.Ctx) error {
	var frame stream.Frame
	switch c.Query("kind", "all") {
	case "all":
		frame = h.feed.Refresh()
	case "metrics":
		frame = h.feed.RefreshMetrics()
	case "charts":
		frame = h.feed.RefreshCharts()
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "kind must be one of metrics, charts, all",
		})
	}
	return c.JSON(frame)
}
