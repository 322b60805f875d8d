package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nakdan-app/nakdan-backend/internal/presets"
)

// Presets returns the static styling preset table for UI enumeration.
func Presets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"presets": presets.AllPresets(),
		"ids":     presets.PresetIDs(),
	})
}
