package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pagequeue/pagequeue/internal/models"
	"github.com/pagequeue/pagequeue/internal/platform"
	"github.com/pagequeue/pagequeue/internal/repository"
	"github.com/pagequeue/pagequeue/internal/transfer"
)

type PostService interface {
	Create(ctx context.Context, pc *transfer.PostCreation) (*models.Post, error)
	CreateAutomatic(ctx context.Context, scheduledTime, platformName string) (*models.Post, error)
	List(ctx context.Context, filter transfer.PostListFilter) (*transfer.PostList, error)
	Info(ctx context.Context, postID int64) (*models.Post, error)
	Update(ctx context.Context, pu *transfer.PostUpdate) (*models.Post, error)
	Remove(ctx context.Context, postID int64) error
}

type postService struct {
	pr       repository.PostRepository
	ir       repository.ImageRepository
	registry *platform.Registry
	captions CaptionService
	pick     func(n int) int
}

func NewPostService(
	pr repository.PostRepository,
	ir repository.ImageRepository,
	registry *platform.Registry,
	captions CaptionService) PostService {
	return &postService{
		pr:       pr,
		ir:       ir,
		registry: registry,
		captions: captions,
		pick:     rand.Intn,
	}
}

// NewPostServiceWithPicker injects the random index source automatic post
// creation uses to pick an unused image.
func NewPostServiceWithPicker(
	pr repository.PostRepository,
	ir repository.ImageRepository,
	registry *platform.Registry,
	captions CaptionService,
	pick func(n int) int) PostService {
	s := NewPostService(pr, ir, registry, captions).(*postService)
	s.pick = pick
	return s
}

// parseScheduledTime accepts RFC3339 or the zoneless datetime-local form;
// the zoneless form is taken in server-local time.
func parseScheduledTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidScheduleTime
}

func (s *postService) Create(ctx context.Context, pc *transfer.PostCreation) (*models.Post, error) {
	if pc.ImageID == 0 {
		return nil, ErrImageRequired
	}

	finalCaption := models.ResolveFinalCaption(pc.Caption, pc.SelectedVariation, pc.CustomCaption)
	if finalCaption == "" {
		return nil, ErrCaptionRequired
	}

	scheduledTime, err := parseScheduledTime(pc.ScheduledTime)
	if err != nil {
		return nil, err
	}
	if !scheduledTime.After(time.Now()) {
		return nil, ErrScheduledInPast
	}

	platformName := pc.Platform
	if platformName == "" {
		platformName = models.PlatformFacebook
	}
	if _, err := s.registry.Get(platformName); err != nil {
		return nil, err
	}

	image, err := s.ir.GetByID(ctx, pc.ImageID)
	if err != nil {
		return nil, fmt.Errorf("error loading image %d: %w", pc.ImageID, err)
	}
	if image == nil {
		return nil, ErrImageNotFound
	}

	post := &models.Post{
		ImageID:           pc.ImageID,
		Caption:           pc.Caption,
		SelectedVariation: pc.SelectedVariation,
		CustomCaption:     pc.CustomCaption,
		FinalCaption:      finalCaption,
		ScheduledTime:     scheduledTime,
		Status:            models.PostStatusQueued,
		Platform:          platformName,
		IsAutomatic:       pc.IsAutomatic,
	}

	id, err := s.pr.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	post.ID = id

	// The post row is committed at this point. If the flag update fails the
	// image stays eligible for automatic selection until a later write lands.
	if err := s.ir.SetUsed(ctx, image.ID, true); err != nil {
		slog.Error("failed to mark image as used", "image_id", image.ID, "error", err)
	}

	return post, nil
}

// CreateAutomatic queues a post from a randomly picked unused image with a
// generated caption.
func (s *postService) CreateAutomatic(ctx context.Context, scheduledTime, platformName string) (*models.Post, error) {
	images, err := s.ir.ListUnused(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing unused images: %w", err)
	}
	if len(images) == 0 {
		return nil, ErrNoUnusedImages
	}

	image := images[s.pick(len(images))]
	generated := s.captions.Generate(image.OriginalName, "")

	return s.Create(ctx, &transfer.PostCreation{
		ImageID:       image.ID,
		Caption:       generated.Caption,
		ScheduledTime: scheduledTime,
		Platform:      platformName,
		IsAutomatic:   true,
	})
}

func (s *postService) List(ctx context.Context, filter transfer.PostListFilter) (*transfer.PostList, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	repoFilter := repository.PostFilter{Status: filter.Status, Platform: filter.Platform}

	posts, err := s.pr.List(ctx, repoFilter, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}

	total, err := s.pr.Count(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("error counting posts: %w", err)
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}

	return &transfer.PostList{
		Posts: posts,
		Pagination: transfer.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

func (s *postService) Info(ctx context.Context, postID int64) (*models.Post, error) {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error loading post %d: %w", postID, err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, pu *transfer.PostUpdate) (*models.Post, error) {
	post, err := s.pr.GetByID(ctx, pu.PostID)
	if err != nil {
		return nil, fmt.Errorf("error loading post %d: %w", pu.PostID, err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	if !post.CanEdit() {
		return nil, ErrPostNotQueued
	}

	if pu.FinalCaption != "" {
		post.FinalCaption = pu.FinalCaption
	}
	if pu.ScheduledTime != "" {
		// edits are deliberately not re-validated against "now"
		scheduledTime, err := parseScheduledTime(pu.ScheduledTime)
		if err != nil {
			return nil, err
		}
		post.ScheduledTime = scheduledTime
	}
	if pu.Platform != "" {
		if _, err := s.registry.Get(pu.Platform); err != nil {
			return nil, err
		}
		post.Platform = pu.Platform
	}
	if pu.Status != "" && pu.Status != post.Status {
		if pu.Status != models.PostStatusCancelled || !post.CanTransitionTo(pu.Status) {
			return nil, ErrInvalidStatusChange
		}
		post.Status = pu.Status
	}

	applied, err := s.pr.UpdateDetails(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("error updating post %d: %w", post.ID, err)
	}
	if !applied {
		return nil, ErrPostNotQueued
	}

	return post, nil
}

func (s *postService) Remove(ctx context.Context, postID int64) error {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("error loading post %d: %w", postID, err)
	}
	if post == nil {
		return ErrPostNotFound
	}

	if !post.CanDelete() {
		return ErrPostAlreadyPosted
	}

	if err := s.pr.Remove(ctx, postID); err != nil {
		return fmt.Errorf("error removing post %d: %w", postID, err)
	}

	remaining, err := s.pr.CountByImageID(ctx, post.ImageID)
	if err != nil {
		return fmt.Errorf("error counting image references: %w", err)
	}
	if remaining == 0 {
		if err := s.ir.SetUsed(ctx, post.ImageID, false); err != nil {
			return fmt.Errorf("error clearing image usage: %w", err)
		}
	}

	return nil
}
