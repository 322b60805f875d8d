package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nakdan-app/nakdan-backend/internal/config"
	"github.com/nakdan-app/nakdan-backend/internal/dto"
	"github.com/nakdan-app/nakdan-backend/internal/models"
	"gorm.io/gorm"
)

// AdminCheck is the authorization capability injected into handlers that
// branch on admin status. Re-derived per request, never cached:
// 1. Config-based admin token/emails
// 2. profiles.is_admin flag
type AdminCheck func(c *fiber.Ctx) bool

func NewAdminCheck(db *gorm.DB, cfg *config.Config) AdminCheck {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) bool {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return true
		}

		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return false
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return false
		}

		email, _ := claims["email"].(string)
		if contains(adminEmails, email) {
			return true
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			return false
		}
		accountID, err := uuid.Parse(sub)
		if err != nil {
			return false
		}

		var profile models.Profile
		if err := db.First(&profile, "id = ?", accountID).Error; err != nil {
			return false
		}
		return profile.IsAdmin
	}
}

// AdminRequired rejects non-admin requests with 403.
func AdminRequired(check AdminCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !check(c) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
