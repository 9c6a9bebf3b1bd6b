package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when a stored object's backing data is gone.
var ErrNotFound = errors.New("stored file not found")

// BlobStorage holds uploaded image bytes. Save returns the public URL the
// stored object is reachable at.
type BlobStorage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Read(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
}

type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir, baseURL: baseURL}, nil
}

func (s *LocalStorage) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	path := filepath.Join(s.dir, key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return fmt.Sprintf("%s/uploads/%s", s.baseURL, key), nil
}

func (s *LocalStorage) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		slog.Info(err.Error())
		return nil, err
	}
	return data, nil
}

func (s *LocalStorage) Remove(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !os.IsNotExist(err) {
		slog.Info(err.Error())
		return err
	}
	return nil
}
