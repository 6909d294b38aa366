package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pulseboard/backend/internal/dashboard"
	"github.com/pulseboard/backend/internal/metrics"
	"github.com/pulseboard/backend/pkg/logger"
)

// DataSource produces dashboard payloads.
type DataSource interface {
	Generate() dashboard.Data
}

type DataHandler struct {
	source DataSource
}

func NewDataHandler(source DataSource) *DataHandler {
	return &DataHandler{
		source: source,
	}
}

func (h *DataHandler) GetData(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Failed to generate dashboard data", zap.Any("panic", r))
			metrics.DataRequests.WithLabelValues("error").Inc()
			err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch data",
			})
		}
	}()

	data := h.source.Generate()
	metrics.DataRequests.WithLabelValues("ok").Inc()

	return c.JSON(data)
}
