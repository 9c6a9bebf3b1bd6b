package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pagequeue/pagequeue/internal/models"
	"github.com/pagequeue/pagequeue/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishFixture struct {
	posts     *fakePostRepository
	images    *fakeImageRepository
	store     *fakeStorage
	publisher *stubPublisher
	svc       PublishService
}

func newPublishFixture(t *testing.T) *publishFixture {
	t.Helper()

	posts := newFakePostRepository()
	images := newFakeImageRepository()
	store := newFakeStorage()
	publisher := &stubPublisher{uploadID: "m1", postID: "p1"}

	registry := platform.NewRegistry()
	registry.Register(models.PlatformFacebook, publisher)

	return &publishFixture{
		posts:     posts,
		images:    images,
		store:     store,
		publisher: publisher,
		svc:       NewPublishService(posts, images, store, registry),
	}
}

func (f *publishFixture) seedQueuedPost(t *testing.T) *models.Post {
	t.Helper()

	image := &models.Image{Filename: "image-abc.jpg", OriginalName: "cat.jpg", IsUsed: true}
	f.images.add(image)
	_, err := f.store.Save(context.Background(), image.Filename, []byte("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)

	post := &models.Post{
		ImageID:       image.ID,
		FinalCaption:  "hello world",
		ScheduledTime: time.Now().Add(-2 * time.Minute),
		Status:        models.PostStatusQueued,
		Platform:      models.PlatformFacebook,
	}
	f.posts.add(post)
	return post
}

func TestPublishPostSuccess(t *testing.T) {
	f := newPublishFixture(t)
	post := f.seedQueuedPost(t)

	result, err := f.svc.PublishPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "p1", result.PlatformPostID)

	stored := f.posts.get(post.ID)
	assert.Equal(t, models.PostStatusPosted, stored.Status)
	assert.Equal(t, "p1", stored.PlatformPostID)
	assert.Empty(t, stored.ErrorMessage)
	require.NotNil(t, stored.PostedAt)
	assert.Equal(t, 1, f.publisher.uploadCalls)
	assert.Equal(t, 1, f.publisher.createCalls)
}

func TestPublishPostUploadFailure(t *testing.T) {
	f := newPublishFixture(t)
	post := f.seedQueuedPost(t)
	f.publisher.uploadErr = errors.New("connection reset")

	_, err := f.svc.PublishPost(context.Background(), post.ID)
	require.Error(t, err)

	stored := f.posts.get(post.ID)
	assert.Equal(t, models.PostStatusFailed, stored.Status)
	assert.Contains(t, stored.ErrorMessage, "media upload failed")
	assert.Empty(t, stored.PlatformPostID)
	assert.Nil(t, stored.PostedAt)
	// the second phase must never run when the first fails
	assert.Equal(t, 0, f.publisher.createCalls)
}

func TestPublishPostCreateFailure(t *testing.T) {
	f := newPublishFixture(t)
	post := f.seedQueuedPost(t)
	f.publisher.postErr = errors.New("permissions error")

	_, err := f.svc.PublishPost(context.Background(), post.ID)
	require.Error(t, err)

	stored := f.posts.get(post.ID)
	assert.Equal(t, models.PostStatusFailed, stored.Status)
	assert.Contains(t, stored.ErrorMessage, "post creation failed")
	assert.NotContains(t, stored.ErrorMessage, "media upload failed")
	assert.Empty(t, stored.PlatformPostID)
}

func TestPublishPostRejections(t *testing.T) {
	f := newPublishFixture(t)
	post := f.seedQueuedPost(t)

	t.Run("not found", func(t *testing.T) {
		_, err := f.svc.PublishPost(context.Background(), 999)
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("unknown platform", func(t *testing.T) {
		other := f.seedQueuedPost(t)
		other.Platform = "myspace"
		f.posts.posts[other.ID].Platform = "myspace"

		_, err := f.svc.PublishPost(context.Background(), other.ID)
		assert.ErrorIs(t, err, platform.ErrUnknownPlatform)
		// rejection leaves the post untouched
		assert.Equal(t, models.PostStatusQueued, f.posts.get(other.ID).Status)
	})

	t.Run("image file missing", func(t *testing.T) {
		require.NoError(t, f.store.Remove(context.Background(), "image-abc.jpg"))
		_, err := f.svc.PublishPost(context.Background(), post.ID)
		assert.ErrorIs(t, err, ErrImageFileMissing)
		assert.Equal(t, models.PostStatusQueued, f.posts.get(post.ID).Status)
	})

	t.Run("not queued", func(t *testing.T) {
		f.posts.posts[post.ID].Status = models.PostStatusPosted
		_, err := f.svc.PublishPost(context.Background(), post.ID)
		assert.ErrorIs(t, err, ErrPostNotQueued)
	})
}

func TestPublishPostConcurrentAttempts(t *testing.T) {
	f := newPublishFixture(t)
	post := f.seedQueuedPost(t)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.PublishPost(context.Background(), post.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		if err == nil {
			wins++
		} else if errors.Is(err, ErrPostNotQueued) {
			losses++
		}
	}
	assert.Equal(t, 1, wins, "exactly one attempt must win the terminal write")
	assert.Equal(t, 1, losses, "the other must observe a precondition failure")

	stored := f.posts.get(post.ID)
	assert.Equal(t, models.PostStatusPosted, stored.Status)
	assert.Equal(t, "p1", stored.PlatformPostID)
}

func TestPostedImpliesPlatformPostID(t *testing.T) {
	f := newPublishFixture(t)
	ok := f.seedQueuedPost(t)
	failing := f.seedQueuedPost(t)

	_, err := f.svc.PublishPost(context.Background(), ok.ID)
	require.NoError(t, err)

	f.publisher.uploadErr = errors.New("boom")
	_, err = f.svc.PublishPost(context.Background(), failing.ID)
	require.Error(t, err)

	for _, post := range []*models.Post{f.posts.get(ok.ID), f.posts.get(failing.ID)} {
		assert.Equal(t, post.Status == models.PostStatusPosted, post.PlatformPostID != "",
			"post %d violates posted <=> platform post id", post.ID)
	}
}

func TestCheckConnection(t *testing.T) {
	f := newPublishFixture(t)
	f.publisher.conn.Connected = true

	status, err := f.svc.CheckConnection(context.Background(), models.PlatformFacebook)
	require.NoError(t, err)
	assert.True(t, status.Connected)

	_, err = f.svc.CheckConnection(context.Background(), "myspace")
	assert.ErrorIs(t, err, platform.ErrUnknownPlatform)
}
