package routers

import (
	"media-pipeline/internal/delivery/http/handlers"

	"github.com/gofiber/fiber/v2"
)

func SetupUploadRoutes(app *fiber.App, h *handlers.UploadHandler) {
	api := app.Group("/api/v1")

	api.Post("/validate", h.Validate)
	api.Post("/upload", h.Upload)
	api.Post("/upload/async", h.UploadAsync)
	api.Post("/upload/batch", h.UploadBatch)
	api.Get("/upload/progress/:id", h.Progress)
	api.Delete("/upload/progress/:id", h.ClearProgress)
}
