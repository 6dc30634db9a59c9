// handlers/cron_routes.go
package handlers

import (
	"log"

	"creator-rewards-system/middleware"
	"creator-rewards-system/services"
	"creator-rewards-system/workers"

	"github.com/gofiber/fiber/v2"
)

// SetupCronRoutes exposes the scheduled jobs as manually triggerable
// endpoints behind the CRON_SECRET bearer check.
func SetupCronRoutes(app *fiber.App, syncWorker *workers.VideoSyncWorker, robloxService *services.RobloxService) {
	cron := app.Group("/cron", middleware.CronAuthMiddleware())

	cron.Get("/sync-videos", func(c *fiber.Ctx) error {
		synced, errored, err := syncWorker.SyncAll(c.Context())
		if err != nil {
			log.Printf("❌ [CRON] Manual sync failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Sync failed"})
		}
		return c.JSON(fiber.Map{
			"success": true,
			"synced":  synced,
			"errors":  errored,
		})
	})

	cron.Get("/roblox-ccu", robloxService.CronSampleCCU)
}
