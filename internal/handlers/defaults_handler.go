package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/nakdan-app/nakdan-backend/internal/dto"
	"github.com/nakdan-app/nakdan-backend/internal/middleware"
	"github.com/nakdan-app/nakdan-backend/internal/services"
)

type DefaultsHandler struct {
	defaults *services.DefaultsService
	isAdmin  middleware.AdminCheck
}

func NewDefaultsHandler(defaults *services.DefaultsService, isAdmin middleware.AdminCheck) *DefaultsHandler {
	return &DefaultsHandler{defaults: defaults, isAdmin: isAdmin}
}

// Get returns the full editable default set for admins, and the read-only
// styling subset for everyone else.
func (h *DefaultsHandler) Get(c *fiber.Ctx) error {
	admin := h.isAdmin(c)

	var (
		values map[string]interface{}
		err    error
	)
	if admin {
		values, err = h.defaults.All()
	} else {
		values, err = h.defaults.DisplayDefaults()
	}
	if err != nil {
		slog.Error("failed to fetch defaults", "error", err.Error(), "action", "defaults_get")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.DefaultsResponse{Editable: admin, Defaults: values})
}

// Update persists a partial defaults object. Admin only.
func (h *DefaultsHandler) Update(c *fiber.Ctx) error {
	if !h.isAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}

	req, ok := parsePartialSettings(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.defaults.Update(req); err != nil {
		slog.Error("failed to update defaults", "error", err.Error(), "action", "defaults_put")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	values, err := h.defaults.All()
	if err != nil {
		slog.Error("failed to re-read defaults", "error", err.Error(), "action", "defaults_put")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.UpdateDefaultsResponse{Success: true, Defaults: values})
}
