package security

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadersMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		cfg       HeadersConfig
		path      string
		wantHSTS  bool
		wantCache string
	}{
		{name: "production api", cfg: HeadersConfig{}, path: "/api/data", wantHSTS: true, wantCache: "no-store"},
		{name: "development", cfg: HeadersConfig{IsDevelopment: true}, path: "/api/data", wantCache: "no-store"},
		{name: "non api path", cfg: HeadersConfig{}, path: "/metrics", wantHSTS: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(HeadersMiddleware(tt.cfg))
			app.Get(tt.path, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)

			assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
			assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
			assert.Equal(t, tt.wantHSTS, resp.Header.Get("Strict-Transport-Security") != "")
			assert.Equal(t, tt.wantCache, resp.Header.Get("Cache-Control"))
		})
	}
}

func TestBuildCSP(t *testing.T) {
	csp := buildCSP([]string{"*", "https://dash.example.com", ""})
	assert.Contains(t, csp, "connect-src 'self' https://dash.example.com;")
	assert.Contains(t, csp, "frame-ancestors 'none'")
}
