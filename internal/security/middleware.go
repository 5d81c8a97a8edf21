package security

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// UserGuard authenticates API callers. The gateway in front of this service
// terminates user sessions and forwards the authenticated user id; the shared
// API key keeps the port from being called directly.
func UserGuard(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("X-API-Key") != apiKey {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
		}

		uid, err := strconv.ParseInt(c.Get("X-User-ID"), 10, 64)
		if err != nil || uid <= 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
		}

		c.Locals("uid", uid)
		return c.Next()
	}
}

func AdminGuard(adminToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("X-Admin-Token") != adminToken {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}
		return c.Next()
	}
}

// UserID reads the authenticated user set by UserGuard.
func UserID(c *fiber.Ctx) int64 {
	uid, _ := c.Locals("uid").(int64)
	return uid
}
