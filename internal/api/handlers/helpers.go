package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/pagequeue/pagequeue/internal/platform"
	"github.com/pagequeue/pagequeue/internal/service"
)

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrImageNotFound),
		errors.Is(err, service.ErrImageFileMissing):
		return fiber.StatusNotFound
	case errors.Is(err, platform.ErrUnknownPlatform),
		errors.Is(err, service.ErrPostNotQueued),
		errors.Is(err, service.ErrPostAlreadyPosted),
		errors.Is(err, service.ErrImageInUse),
		errors.Is(err, service.ErrImageRequired),
		errors.Is(err, service.ErrCaptionRequired),
		errors.Is(err, service.ErrScheduledInPast),
		errors.Is(err, service.ErrInvalidScheduleTime),
		errors.Is(err, service.ErrInvalidStatusChange),
		errors.Is(err, service.ErrNoUnusedImages):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func jsonError(c *fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
