package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/pagequeue/pagequeue/internal/transfer"
)

var ErrUnknownPlatform = errors.New("no publisher registered for platform")

// Publisher is the per-platform client. Publishing is two-phase: media is
// uploaded first, then the public post is created referencing the returned
// media handle.
type Publisher interface {
	UploadMedia(ctx context.Context, data []byte, filename string) (string, error)
	CreatePost(ctx context.Context, mediaID, caption string) (string, error)
	CheckConnection(ctx context.Context) transfer.ConnectionStatus
}

// Registry resolves a Publisher from a post's platform field. Adding a
// platform means registering another implementation.
type Registry struct {
	publishers map[string]Publisher
}

func NewRegistry() *Registry {
	return &Registry{publishers: make(map[string]Publisher)}
}

func (r *Registry) Register(platform string, p Publisher) {
	r.publishers[platform] = p
}

func (r *Registry) Get(platform string) (Publisher, error) {
	p, ok := r.publishers[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
	return p, nil
}

func (r *Registry) Platforms() []string {
	names := make([]string, 0, len(r.publishers))
	for name := range r.publishers {
		names = append(names, name)
	}
	return names
}
