package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/pagequeue/pagequeue/internal/scheduler"
)

type SchedulerHandler struct {
	s *scheduler.Scheduler
}

func NewSchedulerHandler(s *scheduler.Scheduler) *SchedulerHandler {
	return &SchedulerHandler{s: s}
}

type schedulerRequest struct {
	Action string `json:"action"`
}

func (h *SchedulerHandler) Control(c *fiber.Ctx) error {
	var req schedulerRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	switch req.Action {
	case "start":
		if err := h.s.Start(); err != nil {
			return jsonError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Scheduler started successfully",
		})
	case "stop":
		h.s.Stop()
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Scheduler stopped successfully",
		})
	case "status":
		return c.Status(fiber.StatusOK).JSON(h.s.Status())
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid action. Use 'start', 'stop', or 'status'",
	})
}

// Status reports whether the timer is active and which queued posts become
// due within the next day.
func (h *SchedulerHandler) Status(c *fiber.Ctx) error {
	upcoming, err := h.s.Upcoming(c.Context(), 10)
	if err != nil {
		return jsonError(c, err)
	}

	status := h.s.Status()
	resp := fiber.Map{
		"scheduler_running": status.Running,
		"active_jobs":       status.ActiveJobs,
		"upcoming_posts":    upcoming,
	}
	if len(upcoming) > 0 {
		resp["next_post"] = upcoming[0]
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
