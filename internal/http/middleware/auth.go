package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"docmanager/internal/auth"
)

// OwnerIDLocalKey stores the authenticated user id in Fiber's context locals.
const OwnerIDLocalKey = "owner_id"

// RequireAuth accepts a session token from "Authorization: Bearer" or from the
// cookieName cookie and stores the user id under OwnerIDLocalKey.
// Requests without a valid token fail with 401.
func RequireAuth(issuer *auth.Issuer, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Cookies(cookieName)
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing session token")
		}

		claims, err := issuer.Parse(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid session token")
		}

		c.Locals(OwnerIDLocalKey, claims.UserID)
		return c.Next()
	}
}

// OwnerID returns the id stored by RequireAuth.
func OwnerID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(OwnerIDLocalKey).(int64)
	return id, ok && id > 0
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
