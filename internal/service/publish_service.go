package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pagequeue/pagequeue/internal/models"
	"github.com/pagequeue/pagequeue/internal/platform"
	"github.com/pagequeue/pagequeue/internal/repository"
	"github.com/pagequeue/pagequeue/internal/storage"
	"github.com/pagequeue/pagequeue/internal/transfer"
)

// PublishService drives a single queued post through the two-phase publish
// and applies exactly one terminal transition. Both the scheduler and the
// force-publish endpoint go through here.
type PublishService interface {
	PublishPost(ctx context.Context, postID int64) (*transfer.PublishResult, error)
	CheckConnection(ctx context.Context, platformName string) (transfer.ConnectionStatus, error)
}

type publishService struct {
	pr       repository.PostRepository
	ir       repository.ImageRepository
	store    storage.BlobStorage
	registry *platform.Registry
}

func NewPublishService(
	pr repository.PostRepository,
	ir repository.ImageRepository,
	store storage.BlobStorage,
	registry *platform.Registry) PublishService {
	return &publishService{
		pr:       pr,
		ir:       ir,
		store:    store,
		registry: registry,
	}
}

func (s *publishService) PublishPost(ctx context.Context, postID int64) (*transfer.PublishResult, error) {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error loading post %d: %w", postID, err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	if post.Status != models.PostStatusQueued {
		return nil, ErrPostNotQueued
	}

	publisher, err := s.registry.Get(post.Platform)
	if err != nil {
		return nil, err
	}

	image, err := s.ir.GetByID(ctx, post.ImageID)
	if err != nil {
		return nil, fmt.Errorf("error loading image %d: %w", post.ImageID, err)
	}
	if image == nil {
		return nil, ErrImageNotFound
	}

	data, err := s.store.Read(ctx, image.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrImageFileMissing
		}
		return nil, fmt.Errorf("error reading image file: %w", err)
	}

	mediaID, err := publisher.UploadMedia(ctx, data, image.Filename)
	if err != nil {
		s.markFailed(ctx, post.ID, fmt.Sprintf("media upload failed: %v", err))
		return nil, fmt.Errorf("media upload to %s failed: %w", post.Platform, err)
	}

	platformPostID, err := publisher.CreatePost(ctx, mediaID, post.FinalCaption)
	if err != nil {
		// the uploaded media is left orphaned on the platform, there is
		// no retraction call
		s.markFailed(ctx, post.ID, fmt.Sprintf("post creation failed: %v", err))
		return nil, fmt.Errorf("post creation on %s failed: %w", post.Platform, err)
	}

	postedAt := time.Now()
	won, err := s.pr.MarkPosted(ctx, post.ID, platformPostID, postedAt)
	if err != nil {
		return nil, fmt.Errorf("error updating post %d: %w", post.ID, err)
	}
	if !won {
		// another worker reached a terminal state first
		return nil, ErrPostNotQueued
	}

	slog.Info("post published", "post_id", post.ID, "platform", post.Platform, "platform_post_id", platformPostID)

	return &transfer.PublishResult{
		PostID:         post.ID,
		PlatformPostID: platformPostID,
		PostedAt:       &postedAt,
	}, nil
}

func (s *publishService) markFailed(ctx context.Context, postID int64, message string) {
	if _, err := s.pr.MarkFailed(ctx, postID, message); err != nil {
		slog.Error("failed to record post failure", "post_id", postID, "error", err)
	}
}

func (s *publishService) CheckConnection(ctx context.Context, platformName string) (transfer.ConnectionStatus, error) {
	publisher, err := s.registry.Get(platformName)
	if err != nil {
		return transfer.ConnectionStatus{}, err
	}
	return publisher.CheckConnection(ctx), nil
}
