package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/pagequeue/pagequeue/internal/service"
	"github.com/pagequeue/pagequeue/internal/transfer"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(s service.PostService) *PostHandler {
	return &PostHandler{s: s}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var pc transfer.PostCreation
	if err := c.BodyParser(&pc); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	post, err := h.s.Create(c.Context(), &pc)
	if err != nil {
		return jsonError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post created successfully",
		"post":    post,
	})
}

type autoPostRequest struct {
	ScheduledTime string `json:"scheduled_time"`
	Platform      string `json:"platform"`
}

func (h *PostHandler) CreateAutomaticPost(c *fiber.Ctx) error {
	var req autoPostRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	post, err := h.s.CreateAutomatic(c.Context(), req.ScheduledTime, req.Platform)
	if err != nil {
		return jsonError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Automatic post created successfully",
		"post":    post,
	})
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	postID := c.QueryInt("id", 0)
	if postID != 0 {
		post, err := h.s.Info(c.Context(), int64(postID))
		if err != nil {
			return jsonError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(post)
	}

	list, err := h.s.List(c.Context(), transfer.PostListFilter{
		Status:   c.Query("status"),
		Platform: c.Query("platform"),
		Limit:    c.QueryInt("limit", 20),
		Page:     c.QueryInt("page", 1),
	})
	if err != nil {
		return jsonError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(list)
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	var pu transfer.PostUpdate
	if err := c.BodyParser(&pu); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}
	if pu.PostID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "post_id is required",
		})
	}

	post, err := h.s.Update(c.Context(), &pu)
	if err != nil {
		return jsonError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post updated successfully",
		"post":    post,
	})
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	postID := c.QueryInt("id", 0)
	if postID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Post ID is required",
		})
	}

	if err := h.s.Remove(c.Context(), int64(postID)); err != nil {
		return jsonError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post deleted successfully",
	})
}
