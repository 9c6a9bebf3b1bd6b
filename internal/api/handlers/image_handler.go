package handlers

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/pagequeue/pagequeue/internal/service"
)

type ImageHandler struct {
	s service.ImageService
}

func NewImageHandler(s service.ImageService) *ImageHandler {
	return &ImageHandler{s: s}
}

func (h *ImageHandler) UploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}

	files := form.File["images"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files uploaded",
		})
	}

	images, err := h.s.Upload(c.Context(), files)
	if err != nil {
		return jsonError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": fmt.Sprintf("%d image(s) uploaded successfully", len(images)),
		"images":  images,
		"total":   len(images),
	})
}

func (h *ImageHandler) ListImages(c *fiber.Ctx) error {
	images, err := h.s.List(c.Context())
	if err != nil {
		return jsonError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"images": images,
		"total":  len(images),
	})
}

func (h *ImageHandler) RemoveImage(c *fiber.Ctx) error {
	imageID := c.QueryInt("id", 0)
	if imageID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image ID is required",
		})
	}

	if err := h.s.Remove(c.Context(), int64(imageID)); err != nil {
		return jsonError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Image deleted successfully",
	})
}
