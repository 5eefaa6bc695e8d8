package routers

import (
	"media-pipeline/internal/delivery/http/handlers"

	"github.com/gofiber/fiber/v2"
)

func SetupMediaRoutes(app *fiber.App, h *handlers.MediaHandler) {
	api := app.Group("/api/v1")

	api.Get("/media/:key/exists", h.Exists)
	api.Delete("/media/:key", h.Delete)
}
