package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nakdan-app/nakdan-backend/internal/dto"
	"github.com/nakdan-app/nakdan-backend/internal/identity"
	"github.com/nakdan-app/nakdan-backend/internal/services"
)

type AnalysisHandler struct {
	analysis *services.AnalysisService
	settings *services.SettingsService
}

func NewAnalysisHandler(analysis *services.AnalysisService, settings *services.SettingsService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis, settings: settings}
}

// Analyze runs one analysis request with the caller's effective settings.
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	userID, authenticated := identity.Resolve(c)
	var accountID *uuid.UUID
	if authenticated {
		if id, err := identity.AccountID(c); err == nil {
			accountID = &id
		}
	}

	settings, err := h.settings.GetEffective(userID, accountID)
	if err != nil {
		slog.Error("failed to resolve settings", "error", err.Error(), "user_id", userID, "action", "analyze")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	resp, err := h.analysis.Analyze(userID, &req, settings)
	if err != nil {
		if errors.Is(err, services.ErrEmptyText) ||
			errors.Is(err, services.ErrUnknownMode) ||
			errors.Is(err, services.ErrUnknownProvider) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("analysis failed", "error", err.Error(), "user_id", userID, "action", "analyze")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(resp)
}

// History returns the caller's recent analyses.
func (h *AnalysisHandler) History(c *fiber.Ctx) error {
	userID, _ := identity.Resolve(c)
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	records, err := h.analysis.History(userID, limit)
	if err != nil {
		slog.Error("failed to fetch history", "error", err.Error(), "user_id", userID, "action", "history")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(fiber.Map{"records": records})
}
