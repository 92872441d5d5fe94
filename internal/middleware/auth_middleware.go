package middleware

import (
	"strings"

	"officehub-backend/internal/auth"
	"officehub-backend/internal/model"
	"officehub-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID = "user_id"
	localRole   = "role"
	localUser   = "user"
)

// Auth accepts a bearer token only while the session it was issued for is still the user's
// current one. A token from a closed session is rejected even before it expires.
func Auth(tokens *auth.TokenService, users repository.UserRepository) fiber.Handler {
	return authenticate(tokens, users, false)
}

// LogoutAuth also lets through a token whose session is already closed, so logout can answer
// "already logged out". A token from an older session while a newer one is open is still rejected.
func LogoutAuth(tokens *auth.TokenService, users repository.UserRepository) fiber.Handler {
	return authenticate(tokens, users, true)
}

func authenticate(tokens *auth.TokenService, users repository.UserRepository, allowClosed bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Take the token from the Authorization header
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing token"})
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		// 2. Parse and verify
		claims, err := tokens.Parse(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		// 3. The session must still be open, or closed with nothing newer in its place
		user, err := users.FindByID(c.UserContext(), claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		if !sessionAccepted(user, claims.SessionID(), allowClosed) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session is closed"})
		}

		// 4. Keep the caller in the context for handlers
		c.Locals(localUserID, user.ID)
		c.Locals(localRole, user.Role)
		c.Locals(localUser, user)

		return c.Next()
	}
}

func sessionAccepted(user *model.User, sessionID string, allowClosed bool) bool {
	if user.SessionState == model.SessionActive {
		return user.SessionID == sessionID
	}
	return allowClosed && user.SessionID == ""
}

// CurrentUser returns the user stored by Auth, or nil on an unauthenticated route.
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(localUser).(*model.User)
	return user
}
