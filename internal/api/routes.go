// ABOUTME: Fiber app construction and route registration.
// ABOUTME: Mounts /health, /metrics, and the /api/v1 read surface.
package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is satisfied by the store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AppConfig holds the HTTP settings the Fiber app needs.
type AppConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MetricsPath  string // empty disables /metrics
}

// NewApp creates the Fiber app with the translator installed.
func NewApp(cfg AppConfig, t *Translator) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		ErrorHandler:          t.ErrorHandler,
		DisableStartupMessage: true,
	})
	app.Use(fiberrecover.New(fiberrecover.Config{
		EnableStackTrace:  true,
		StackTraceHandler: t.StackTraceHandler,
	}))
	return app
}

// RegisterRoutes mounts /health, /metrics, and /api/v1.
func RegisterRoutes(app *fiber.App, h *Handler, store Pinger, metricsPath string) {
	if metricsPath != "" {
		app.Get(metricsPath, adaptor.HTTPHandler(promhttp.Handler()))
	}

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		checks := map[string]string{"store": "ok"}
		status := "ok"
		code := fiber.StatusOK

		healthCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := store.Ping(healthCtx); err != nil {
			checks["store"] = err.Error()
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	})

	// API routes
	v1 := app.Group("/api/v1")
	v1.Get("/products", h.ListProducts)
	v1.Get("/products/search", h.SearchProducts)
	v1.Get("/products/:code", h.GetProduct)
	v1.Get("/nav", h.ListNav)
	v1.Get("/nav/:code/:date", h.GetNav)
}
