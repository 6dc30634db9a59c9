// middleware/admin_auth.go
package middleware

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
)

// AdminAuthMiddleware gates the admin surface behind the opaque admin
// capability: either the admin_token cookie set by login, or the raw
// ADMIN_PASSWORD in the X-Admin-Token header for API clients.
func AdminAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Cookies("admin_token") == "authenticated" {
			return c.Next()
		}

		password := os.Getenv("ADMIN_PASSWORD")
		if password != "" && c.Get("X-Admin-Token") == password {
			return c.Next()
		}

		log.Printf("❌ [ADMIN] Unauthorized request to %s", c.Path())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
}
