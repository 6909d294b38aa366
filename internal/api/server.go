// Package api assembles the fiber application serving the dashboard.
package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/pulseboard/backend/internal/api/handlers"
	"github.com/pulseboard/backend/internal/insights"
	"github.com/pulseboard/backend/internal/metrics"
	"github.com/pulseboard/backend/internal/middleware/ratelimit"
	"github.com/pulseboard/backend/internal/middleware/security"
	"github.com/pulseboard/backend/internal/middleware/validation"
	"github.com/pulseboard/backend/internal/stream"
	"github.com/pulseboard/backend/pkg/config"
)

const insightBodyLimit = 64 << 10

type Deps struct {
	Server    config.ServerConfig
	Insights  handlers.InsightConfig
	Data      handlers.DataSource
	Feed      *stream.Feed
	Responder *insights.Responder
	Counter   insights.Counter
	Catalog   insights.Catalog
	// Limiter guards POST /api/insights; nil disables rate limiting.
	Limiter *ratelimit.RateLimiter
	// Ready reports whether backing stores are usable; nil means always ready.
	Ready func() error
	// RequestLog toggles the fiber access log.
	RequestLog bool
}

func NewApp(d Deps) *fiber.App {
	json := jsoniter.ConfigCompatibleWithStandardLibrary

	app := fiber.New(fiber.Config{
		AppName:               "pulseboard",
		ReadTimeout:           time.Duration(d.Server.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(d.Server.WriteTimeout) * time.Second,
		BodyLimit:             d.Server.BodyLimit,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if d.RequestLog {
		app.Use(fiberlogger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins(d.Server.AllowedOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		AllowedOrigins: d.Server.AllowedOrigins,
		IsDevelopment:  d.Server.Development,
	}))

	dataHandler := handlers.NewDataHandler(d.Data)
	insightHandler := handlers.NewInsightHandler(d.Responder, d.Counter, d.Catalog, d.Insights)
	streamHandler := handlers.NewStreamHandler(d.Feed)
	wsHandler := handlers.NewWebSocketHandler(d.Feed, d.Responder, d.Counter)

	api := app.Group("/api")

	api.Get("/data", dataHandler.GetData)

	insightChain := []fiber.Handler{}
	if d.Limiter != nil {
		insightChain = append(insightChain, d.Limiter.Middleware())
	}
	insightChain = append(insightChain,
		validation.Middleware(validation.Config{
			MaxBodySize: insightBodyLimit,
			Status:      fiber.StatusInternalServerError,
			Message:     "Failed to generate insights",
		}),
		insightHandler.HandleQuestion,
	)
	api.Post("/insights", insightChain...)
	api.Get("/insights/topics", insightHandler.GetTopics)
	api.Delete("/insights/topics", insightHandler.ResetTopics)
	api.Get("/insights/catalog", insightHandler.GetCatalog)

	api.Get("/metrics/live", streamHandler.GetLive)
	api.Post("/metrics/refresh", streamHandler.Refresh)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "not ready",
					"error":  err.Error(),
				})
			}
		}
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/metrics", websocket.New(wsHandler.HandleConnection))

	return app
}

func allowOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ", ")
}
