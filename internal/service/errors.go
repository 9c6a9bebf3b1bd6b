package service

import "errors"

var (
	ErrPostNotFound        = errors.New("post not found")
	ErrPostNotQueued       = errors.New("post is not in queued status")
	ErrPostAlreadyPosted   = errors.New("cannot delete already posted content")
	ErrImageNotFound       = errors.New("image not found")
	ErrImageFileMissing    = errors.New("image file not found")
	ErrImageInUse          = errors.New("image is still referenced by posts")
	ErrImageRequired       = errors.New("image_id is required")
	ErrCaptionRequired     = errors.New("caption cannot be empty")
	ErrScheduledInPast     = errors.New("scheduled time must be in the future")
	ErrInvalidScheduleTime = errors.New("invalid scheduled time format")
	ErrInvalidStatusChange = errors.New("status can only be changed to cancelled")
	ErrNoUnusedImages      = errors.New("no unused images available")
)
