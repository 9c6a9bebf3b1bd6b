package service

import (
	"context"
	"sync"
	"time"

	"github.com/pagequeue/pagequeue/internal/models"
	"github.com/pagequeue/pagequeue/internal/repository"
	"github.com/pagequeue/pagequeue/internal/storage"
	"github.com/pagequeue/pagequeue/internal/transfer"
)

type fakePostRepository struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]*models.Post
}

func newFakePostRepository() *fakePostRepository {
	return &fakePostRepository{posts: make(map[int64]*models.Post)}
}

func (r *fakePostRepository) add(post *models.Post) *models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	post.ID = r.nextID
	copied := *post
	r.posts[post.ID] = &copied
	return post
}

func (r *fakePostRepository) get(id int64) *models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post, ok := r.posts[id]; ok {
		copied := *post
		return &copied
	}
	return nil
}

func (r *fakePostRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	return r.add(post).ID, nil
}

func (r *fakePostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return r.get(id), nil
}

func (r *fakePostRepository) List(ctx context.Context, filter repository.PostFilter, limit, offset int) ([]*models.Post, error) {
	matched := r.matching(filter)
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakePostRepository) Count(ctx context.Context, filter repository.PostFilter) (int64, error) {
	return int64(len(r.matching(filter))), nil
}

func (r *fakePostRepository) matching(filter repository.PostFilter) []*models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.Post
	for id := int64(1); id <= r.nextID; id++ {
		post, ok := r.posts[id]
		if !ok {
			continue
		}
		if filter.Status != "" && post.Status != filter.Status {
			continue
		}
		if filter.Platform != "" && post.Platform != filter.Platform {
			continue
		}
		copied := *post
		matched = append(matched, &copied)
	}
	return matched
}

func (r *fakePostRepository) ListDue(ctx context.Context, from, to time.Time) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []*models.Post
	for id := int64(1); id <= r.nextID; id++ {
		post, ok := r.posts[id]
		if !ok || post.Status != models.PostStatusQueued {
			continue
		}
		if post.ScheduledTime.Before(from) || post.ScheduledTime.After(to) {
			continue
		}
		copied := *post
		due = append(due, &copied)
	}
	return due, nil
}

func (r *fakePostRepository) ListUpcoming(ctx context.Context, from, to time.Time, limit int) ([]*models.Post, error) {
	due, _ := r.ListDue(ctx, from, to)
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *fakePostRepository) UpdateDetails(ctx context.Context, post *models.Post) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[post.ID]
	if !ok || stored.Status != models.PostStatusQueued {
		return false, nil
	}
	stored.FinalCaption = post.FinalCaption
	stored.ScheduledTime = post.ScheduledTime
	stored.Platform = post.Platform
	stored.Status = post.Status
	stored.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakePostRepository) MarkPosted(ctx context.Context, id int64, platformPostID string, postedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[id]
	if !ok || stored.Status != models.PostStatusQueued {
		return false, nil
	}
	stored.Status = models.PostStatusPosted
	stored.PlatformPostID = platformPostID
	stored.PostedAt = &postedAt
	stored.ErrorMessage = ""
	stored.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakePostRepository) MarkFailed(ctx context.Context, id int64, errorMessage string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[id]
	if !ok || stored.Status != models.PostStatusQueued {
		return false, nil
	}
	stored.Status = models.PostStatusFailed
	stored.ErrorMessage = errorMessage
	stored.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakePostRepository) CountByImageID(ctx context.Context, imageID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, post := range r.posts {
		if post.ImageID == imageID {
			total++
		}
	}
	return total, nil
}

func (r *fakePostRepository) Remove(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

var _ repository.PostRepository = (*fakePostRepository)(nil)

type fakeImageRepository struct {
	mu         sync.Mutex
	nextID     int64
	images     map[int64]*models.Image
	setUsedErr error
}

func newFakeImageRepository() *fakeImageRepository {
	return &fakeImageRepository{images: make(map[int64]*models.Image)}
}

func (r *fakeImageRepository) add(image *models.Image) *models.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	image.ID = r.nextID
	copied := *image
	r.images[image.ID] = &copied
	return image
}

func (r *fakeImageRepository) Create(ctx context.Context, image *models.Image) (int64, error) {
	return r.add(image).ID, nil
}

func (r *fakeImageRepository) GetByID(ctx context.Context, id int64) (*models.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if image, ok := r.images[id]; ok {
		copied := *image
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeImageRepository) List(ctx context.Context) ([]*models.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var images []*models.Image
	for id := int64(1); id <= r.nextID; id++ {
		if image, ok := r.images[id]; ok {
			copied := *image
			images = append(images, &copied)
		}
	}
	return images, nil
}

func (r *fakeImageRepository) ListUnused(ctx context.Context) ([]*models.Image, error) {
	all, _ := r.List(ctx)
	var unused []*models.Image
	for _, image := range all {
		if !image.IsUsed {
			unused = append(unused, image)
		}
	}
	return unused, nil
}

func (r *fakeImageRepository) SetUsed(ctx context.Context, id int64, used bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setUsedErr != nil {
		return r.setUsedErr
	}
	if image, ok := r.images[id]; ok {
		image.IsUsed = used
	}
	return nil
}

func (r *fakeImageRepository) Remove(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.images, id)
	return nil
}

var _ repository.ImageRepository = (*fakeImageRepository)(nil)

type fakeStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{blobs: make(map[string][]byte)}
}

func (s *fakeStorage) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return "http://localhost:3000/uploads/" + key, nil
}

func (s *fakeStorage) Read(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if data, ok := s.blobs[key]; ok {
		return data, nil
	}
	return nil, storage.ErrNotFound
}

func (s *fakeStorage) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

type stubPublisher struct {
	mu          sync.Mutex
	uploadID    string
	uploadErr   error
	postID      string
	postErr     error
	uploadCalls int
	createCalls int
	conn        transfer.ConnectionStatus
}

func (p *stubPublisher) UploadMedia(ctx context.Context, data []byte, filename string) (string, error) {
	p.mu.Lock()
	p.uploadCalls++
	p.mu.Unlock()
	if p.uploadErr != nil {
		return "", p.uploadErr
	}
	return p.uploadID, nil
}

func (p *stubPublisher) CreatePost(ctx context.Context, mediaID, caption string) (string, error) {
	p.mu.Lock()
	p.createCalls++
	p.mu.Unlock()
	if p.postErr != nil {
		return "", p.postErr
	}
	return p.postID, nil
}

func (p *stubPublisher) CheckConnection(ctx context.Context) transfer.ConnectionStatus {
	return p.conn
}
