// handlers/stats_routes.go
package handlers

import (
	"creator-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupStatsRoutes(app *fiber.App, leaderboardService *services.LeaderboardService, robuxService *services.RobuxService, robloxService *services.RobloxService) {
	app.Get("/leaderboard", leaderboardService.GetLeaderboard)
	app.Get("/robux", robuxService.GetRobuxStats)
	app.Get("/roblox-ccu", robloxService.GetCCU)
}
