package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nakdan-app/nakdan-backend/internal/database"
	"github.com/nakdan-app/nakdan-backend/internal/dto"
	"github.com/nakdan-app/nakdan-backend/internal/providers"
)

type HealthHandler struct {
	registry *providers.Registry
}

func NewHealthHandler(registry *providers.Registry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Providers: len(h.registry.All()),
	})
}
