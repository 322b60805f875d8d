package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the anonymous identity cookie issued to visitors.
const CookieName = "user_id"

// cookieMaxAge is one year, in seconds.
const cookieMaxAge = 365 * 24 * 60 * 60

// AccountID extracts the authenticated account UUID from JWT claims in
// context. Returns an error for anonymous requests.
func AccountID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, errors.New("no token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// Resolve returns the settings identity for this request: the account UUID
// for authenticated callers, otherwise the user_id cookie value, issuing the
// cookie when absent. The cookie is only ever set once per visitor; repeat
// requests reuse the stored value.
func Resolve(c *fiber.Ctx) (userID string, authenticated bool) {
	if id, err := AccountID(c); err == nil {
		return id.String(), true
	}

	if existing := c.Cookies(CookieName); existing != "" {
		if _, err := uuid.Parse(existing); err == nil {
			return existing, false
		}
	}

	id := uuid.New().String()
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return id, false
}
