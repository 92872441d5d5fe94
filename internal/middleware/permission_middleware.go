package middleware

import (
	"officehub-backend/internal/model"
	"officehub-backend/internal/policy"

	"github.com/gofiber/fiber/v2"
)

// Permission must run after Auth.
func Permission(required policy.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(localRole).(model.Role)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied: no role"})
		}

		if !policy.Allows(role, required) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied: missing permission " + string(required)})
		}

		return c.Next()
	}
}
