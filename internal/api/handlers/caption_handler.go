package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/pagequeue/pagequeue/internal/service"
	"github.com/pagequeue/pagequeue/internal/transfer"
)

type CaptionHandler struct {
	captions service.CaptionService
	images   service.ImageService
}

func NewCaptionHandler(captions service.CaptionService, images service.ImageService) *CaptionHandler {
	return &CaptionHandler{captions: captions, images: images}
}

func (h *CaptionHandler) GenerateCaption(c *fiber.Ctx) error {
	var req transfer.CaptionRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}
	if req.ImageID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "image_id is required",
		})
	}

	image, err := h.images.Info(c.Context(), req.ImageID)
	if err != nil {
		return jsonError(c, err)
	}

	result := h.captions.Generate(image.OriginalName, req.CustomPrompt)
	return c.Status(fiber.StatusOK).JSON(result)
}
