package validation

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Config struct {
	MaxBodySize         int
	AllowedContentTypes []string
	// Status and Message form the error reply; routes keep their own
	// failure body so clients see one error shape.
	Status  int
	Message string
	Logger  *zap.Logger
}

func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = 1 << 20
	}
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{fiber.MIMEApplicationJSON}
	}
	if cfg.Status == 0 {
		cfg.Status = fiber.StatusBadRequest
	}
	if cfg.Message == "" {
		cfg.Message = "Invalid request"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	reject := func(c *fiber.Ctx, reason string) error {
		cfg.Logger.Warn("Request rejected",
			zap.String("reason", reason),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		return c.Status(cfg.Status).JSON(fiber.Map{
			"error": cfg.Message,
		})
	}

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost && c.Method() != fiber.MethodPut {
			return c.Next()
		}

		if contentType := c.Get(fiber.HeaderContentType); contentType != "" {
			if !allowed(contentType, cfg.AllowedContentTypes) {
				return reject(c, "unsupported content type")
			}
		}

		if len(c.Body()) > cfg.MaxBodySize {
			return reject(c, "body too large")
		}

		return c.Next()
	}
}

func allowed(contentType string, types []string) bool {
	contentType = strings.ToLower(contentType)
	for _, t := range types {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}
