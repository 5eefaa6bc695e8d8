package handlers

import (
	"media-pipeline/internal/domain/dto"
	"media-pipeline/internal/domain/repositories"

	"github.com/gofiber/fiber/v2"
)

type MediaHandler struct {
	storage repositories.StorageStrategy
}

func NewMediaHandler(storage repositories.StorageStrategy) *MediaHandler {
	return &MediaHandler{storage: storage}
}

// Delete
//
// @Summary      Delete Media
// @Description  Removes the stored object and its derivatives from the configured backend
// @Tags         Media
// @Produce      json
// @Param        key  path      string  true  "Object key"
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/media/{key} [delete]
func (h *MediaHandler) Delete(c *fiber.Ctx) error {
	key := c.Params("key")

	if err := h.storage.Delete(c.UserContext(), key); err != nil {
		return c.Status(500).JSON(dto.ErrorResponse{Error: "delete_failed", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Exists
//
// @Summary      Probe Media
// @Description  Lightweight existence check for a stored object key
// @Tags         Media
// @Produce      json
// @Param        key  path      string  true  "Object key"
// @Success      200  {object}  map[string]bool
// @Router       /api/v1/media/{key}/exists [get]
func (h *MediaHandler) Exists(c *fiber.Ctx) error {
	key := c.Params("key")
	return c.JSON(fiber.Map{"exists": h.storage.Exists(c.UserContext(), key)})
}
