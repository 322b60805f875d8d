package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/nakdan-app/nakdan-backend/internal/config"
	"github.com/nakdan-app/nakdan-backend/internal/handlers"
	"github.com/nakdan-app/nakdan-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	settingsHandler *handlers.SettingsHandler,
	defaultsHandler *handlers.DefaultsHandler,
	analysisHandler *handlers.AnalysisHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health
	api.Get("/health", healthHandler.Check)

	// Styling presets (static, public)
	api.Get("/presets", handlers.Presets)

	// Auth — public, stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Settings — anonymous (cookie) or authenticated (bearer token)
	api.Get("/settings", middleware.OptionalJWT(cfg), settingsHandler.Get)
	api.Put("/settings", middleware.OptionalJWT(cfg), settingsHandler.Update)

	// Admin defaults — GET branches on admin status inside the handler,
	// PUT enforces 403 itself so non-admin writes never reach the store
	api.Get("/admin/defaults", middleware.OptionalJWT(cfg), defaultsHandler.Get)
	api.Put("/admin/defaults", middleware.OptionalJWT(cfg), defaultsHandler.Update)

	// Analysis — stricter rate limit, provider calls are expensive
	analyze := api.Group("/analyze", middleware.OptionalJWT(cfg))
	analyze.Use(limiter.New(limiter.Config{
		Max:               20,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	analyze.Post("/", analysisHandler.Analyze)
	analyze.Get("/history", analysisHandler.History)
}
