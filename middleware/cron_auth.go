// middleware/cron_auth.go
package middleware

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
)

// CronAuthMiddleware verifies scheduled-trigger requests with the shared
// CRON_SECRET bearer token. With no secret configured the routes stay open
// (local/dev behavior).
func CronAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := os.Getenv("CRON_SECRET")
		if secret == "" {
			return c.Next()
		}

		if c.Get("Authorization") != "Bearer "+secret {
			log.Printf("❌ [CRON] Unauthorized request to %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		return c.Next()
	}
}
