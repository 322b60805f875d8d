package handlers

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nakdan-app/nakdan-backend/internal/dto"
	"github.com/nakdan-app/nakdan-backend/internal/identity"
	"github.com/nakdan-app/nakdan-backend/internal/services"
)

type SettingsHandler struct {
	settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get returns the caller's effective settings, issuing the anonymous user_id
// cookie when absent.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	userID, authenticated := identity.Resolve(c)

	var accountID *uuid.UUID
	if authenticated {
		if id, err := identity.AccountID(c); err == nil {
			accountID = &id
		}
	}

	settings, err := h.settings.GetEffective(userID, accountID)
	if err != nil {
		slog.Error("failed to resolve settings", "error", err.Error(), "user_id", userID, "action", "settings_get")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(settings)
}

// Update persists a partial settings object and returns the re-resolved
// effective settings.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	req, ok := parsePartialSettings(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	userID, authenticated := identity.Resolve(c)

	if err := h.settings.Save(userID, req); err != nil {
		slog.Error("failed to save settings", "error", err.Error(), "user_id", userID, "action", "settings_put")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	var accountID *uuid.UUID
	if authenticated {
		if id, err := identity.AccountID(c); err == nil {
			accountID = &id
			if req.WordSpacing != nil {
				if err := h.settings.SetWordSpacingPreference(id, *req.WordSpacing); err != nil {
					slog.Error("failed to save word spacing preference", "error", err.Error(), "user_id", userID, "action", "settings_put")
				}
			}
		}
	}

	settings, err := h.settings.GetEffective(userID, accountID)
	if err != nil {
		slog.Error("failed to re-read settings", "error", err.Error(), "user_id", userID, "action", "settings_put")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.UpdateSettingsResponse{Success: true, Settings: settings})
}

// parsePartialSettings enforces that the body is a non-null JSON object
// before decoding the known fields.
func parsePartialSettings(c *fiber.Ctx) (*dto.UpdateSettingsRequest, bool) {
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &shape); err != nil || shape == nil {
		return nil, false
	}

	var req dto.UpdateSettingsRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return nil, false
	}
	return &req, true
}
