// handlers/admin_routes.go
package handlers

import (
	"creator-rewards-system/middleware"
	"creator-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App, adminService *services.AdminService, leaderboardService *services.LeaderboardService) {
	app.Post("/admin/login", adminService.Login)

	// 🔐 Everything else requires the admin capability
	admin := app.Group("/admin", middleware.AdminAuthMiddleware())
	admin.Get("/videos", adminService.ListVideos)
	admin.Post("/override-eligibility", adminService.OverrideEligibility)
	admin.Post("/clear-override", adminService.ClearOverride)
	admin.Get("/leaderboard/export", leaderboardService.ExportLeaderboard)
}
