// handlers/participant_routes.go
package handlers

import (
	"creator-rewards-system/middleware"
	"creator-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupParticipantRoutes(app *fiber.App, participantService *services.ParticipantService) {
	// 🔓 Public routes — registration and the token-keyed dashboard
	app.Post("/participants/register", participantService.Register)
	app.Get("/participants/search", participantService.Search)
	app.Get("/participants/token/:token", participantService.GetParticipantByToken)

	// 🔐 Detail by id is an admin surface
	admin := app.Group("/participants", middleware.AdminAuthMiddleware())
	admin.Get("/:id", participantService.GetParticipant)
}
