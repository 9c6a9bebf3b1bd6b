package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pagequeue/pagequeue/internal/models"
	"github.com/pagequeue/pagequeue/internal/transfer"
	"github.com/robfig/cron"
)

// PostStore is the slice of the post repository the scheduler needs.
type PostStore interface {
	ListDue(ctx context.Context, from, to time.Time) ([]*models.Post, error)
	ListUpcoming(ctx context.Context, from, to time.Time, limit int) ([]*models.Post, error)
	MarkFailed(ctx context.Context, id int64, errorMessage string) (bool, error)
}

// Publisher performs the synchronous single-post publish.
type Publisher interface {
	PublishPost(ctx context.Context, postID int64) (*transfer.PublishResult, error)
}

// Scheduler owns a single recurring timer that discovers due posts inside a
// bounded look-back window and publishes them one by one.
type Scheduler struct {
	mu        sync.Mutex
	cron      *cron.Cron
	interval  time.Duration
	lookback  time.Duration
	posts     PostStore
	publisher Publisher
	ticking   atomic.Bool
}

func New(posts PostStore, publisher Publisher, interval, lookback time.Duration) *Scheduler {
	if lookback < interval {
		// a window smaller than the tick would let due posts slip through
		lookback = interval
	}
	return &Scheduler{
		interval:  interval,
		lookback:  lookback,
		posts:     posts,
		publisher: publisher,
	}
}

// Start registers the main timer. Starting a running scheduler is a no-op.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}

	c := cron.New()
	if err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), s.Tick); err != nil {
		return fmt.Errorf("failed to register scheduler timer: %w", err)
	}
	c.Start()
	s.cron = c

	slog.Info("post scheduler started", "interval", s.interval.String(), "lookback", s.lookback.String())
	return nil
}

// Stop halts future ticks. An in-flight tick finishes on its own and still
// writes its outcome back. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return
	}
	s.cron.Stop()
	s.cron = nil

	slog.Info("post scheduler stopped")
}

func (s *Scheduler) Status() transfer.SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return transfer.SchedulerStatus{}
	}
	return transfer.SchedulerStatus{
		Running:    true,
		ActiveJobs: len(s.cron.Entries()),
	}
}

// Upcoming previews queued posts becoming due within the next 24 hours.
func (s *Scheduler) Upcoming(ctx context.Context, limit int) ([]*models.Post, error) {
	now := time.Now()
	return s.posts.ListUpcoming(ctx, now, now.Add(24*time.Hour), limit)
}

// Tick runs one discovery pass. Ticks never overlap: if the previous pass is
// still running the fire is skipped and the work is picked up by a later one.
func (s *Scheduler) Tick() {
	if !s.ticking.CompareAndSwap(false, true) {
		return
	}
	defer s.ticking.Store(false)

	ctx := context.Background()
	now := time.Now()

	due, err := s.posts.ListDue(ctx, now.Add(-s.lookback), now)
	if err != nil {
		// leave it for the next tick, the scheduler itself never dies
		slog.Error("failed to query due posts", "error", err)
		return
	}

	if len(due) == 0 {
		return
	}
	slog.Info("processing due posts", "count", len(due))

	for _, post := range due {
		s.process(ctx, post)
	}
}

// process publishes one due post. A failure is recorded on the post and must
// not abort the remaining posts of the same tick.
func (s *Scheduler) process(ctx context.Context, post *models.Post) {
	_, err := s.publisher.PublishPost(ctx, post.ID)
	if err == nil {
		return
	}

	slog.Error("failed to process post", "post_id", post.ID, "platform", post.Platform, "error", err)

	// the publish path records adapter failures itself with a specific
	// message; this conditional write only lands when the post is still
	// queued (e.g. unrecognized platform)
	if _, mErr := s.posts.MarkFailed(ctx, post.ID, fmt.Sprintf("processing failed: %v", err)); mErr != nil {
		slog.Error("failed to record post failure", "post_id", post.ID, "error", mErr)
	}
}
