package middleware

import (
	"crypto/subtle"
	"errors"

	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/LibrelandCommunity/libreland-server/internal/types"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LocalSessionToken is the Locals key holding the raw session cookie value
const LocalSessionToken = "sessionToken"

// LocalUser is the Locals key holding the authenticated *models.UserAccount
const LocalUser = "user"

// AdminTokenHeader carries the admin token on admin routes
const AdminTokenHeader = "X-Admin-Token"

// Session copies the session cookie into Locals. It never rejects a request.
func Session(cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := c.Cookies(cookieName); token != "" {
			c.Locals(LocalSessionToken, token)
		}
		return c.Next()
	}
}

// SessionToken returns the session token stored by Session, or ""
func SessionToken(c *fiber.Ctx) string {
	token, _ := c.Locals(LocalSessionToken).(string)
	return token
}

// RequireSession rejects requests without a session that maps to a user account
func RequireSession(db *gorm.DB, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			return types.NewCustomError(fiber.StatusUnauthorized, "Session cookie \"" + cookieName + "\" not found", "session")
		}

		user, err := services.FindUserBySession(db, token)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return types.NewCustomError(fiber.StatusUnauthorized, "Invalid session", "session")
			}
			return err
		}

		c.Locals(LocalSessionToken, token)
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// AuthAdmin guards admin routes with a shared token. With no token configured
// admin routes are disabled.
func AuthAdmin(adminToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if adminToken == "" {
			return types.NewCustomError(fiber.StatusForbidden, "Admin routes are disabled", "admin")
		}
		supplied := c.Get(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(adminToken)) != 1 {
			return types.NewCustomError(fiber.StatusForbidden, "Invalid admin token", "admin")
		}
		return c.Next()
	}
}
