package service

import (
	"errors"
	"testing"
	"time"

	"github.com/pagequeue/pagequeue/internal/models"
	"github.com/pagequeue/pagequeue/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End-to-end over the in-memory doubles: a tick discovers the due post and
// drives it through the real publish path.
func TestSchedulerTickPublishesThroughPipeline(t *testing.T) {
	f := newPublishFixture(t)
	post := f.seedQueuedPost(t) // scheduled two minutes ago

	s := scheduler.New(f.posts, f.svc, time.Minute, 5*time.Minute)
	s.Tick()

	stored := f.posts.get(post.ID)
	assert.Equal(t, models.PostStatusPosted, stored.Status)
	assert.Equal(t, "p1", stored.PlatformPostID)
	assert.Empty(t, stored.ErrorMessage)
	require.NotNil(t, stored.PostedAt)
}

func TestSchedulerTickRecordsUploadFailure(t *testing.T) {
	f := newPublishFixture(t)
	post := f.seedQueuedPost(t)
	f.publisher.uploadErr = errors.New("connection reset")

	s := scheduler.New(f.posts, f.svc, time.Minute, 5*time.Minute)
	s.Tick()

	stored := f.posts.get(post.ID)
	assert.Equal(t, models.PostStatusFailed, stored.Status)
	assert.Contains(t, stored.ErrorMessage, "media upload failed")
	assert.Equal(t, 0, f.publisher.createCalls)

	// failed is terminal, the next tick leaves it alone
	s.Tick()
	assert.Equal(t, 1, f.publisher.uploadCalls)
}

func TestSchedulerTickFailsUnknownPlatformPost(t *testing.T) {
	f := newPublishFixture(t)
	post := f.seedQueuedPost(t)
	f.posts.posts[post.ID].Platform = "myspace"

	s := scheduler.New(f.posts, f.svc, time.Minute, 5*time.Minute)
	s.Tick()

	stored := f.posts.get(post.ID)
	assert.Equal(t, models.PostStatusFailed, stored.Status)
	assert.Contains(t, stored.ErrorMessage, "processing failed")
	assert.Contains(t, stored.ErrorMessage, "myspace")
}
