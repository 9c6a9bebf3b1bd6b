package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/pagequeue/pagequeue/internal/service"
)

type PublishHandler struct {
	s service.PublishService
}

func NewPublishHandler(s service.PublishService) *PublishHandler {
	return &PublishHandler{s: s}
}

type publishRequest struct {
	PostID int64 `json:"post_id"`
}

// PublishPost force-publishes one queued post synchronously, outside the
// scheduler timer.
func (h *PublishHandler) PublishPost(c *fiber.Ctx) error {
	var req publishRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}
	if req.PostID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "post_id is required",
		})
	}

	result, err := h.s.PublishPost(c.Context(), req.PostID)
	if err != nil {
		return jsonError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":          "Post published successfully",
		"platform_post_id": result.PlatformPostID,
		"posted_at":        result.PostedAt,
	})
}

func (h *PublishHandler) CheckConnection(c *fiber.Ctx) error {
	status, err := h.s.CheckConnection(c.Context(), c.Params("platform"))
	if err != nil {
		return jsonError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(status)
}
