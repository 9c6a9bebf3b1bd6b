package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pagequeue/pagequeue/internal/models"
	"github.com/pagequeue/pagequeue/internal/repository"
	"github.com/pagequeue/pagequeue/internal/storage"
)

const maxImageSize = 10 * 1024 * 1024 // 10 MB

type ImageService interface {
	Upload(ctx context.Context, files []*multipart.FileHeader) ([]*models.Image, error)
	List(ctx context.Context) ([]*models.Image, error)
	Info(ctx context.Context, imageID int64) (*models.Image, error)
	Remove(ctx context.Context, imageID int64) error
}

type imageService struct {
	ir    repository.ImageRepository
	store storage.BlobStorage
}

func NewImageService(ir repository.ImageRepository, store storage.BlobStorage) ImageService {
	return &imageService{ir: ir, store: store}
}

func (s *imageService) Upload(ctx context.Context, files []*multipart.FileHeader) ([]*models.Image, error) {
	allowedTypes := map[string]struct{}{
		"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "webp": {},
	}

	var images []*models.Image
	for _, file := range files {
		if file.Size > maxImageSize {
			return nil, fmt.Errorf("file too large: %s, max size is 10MB", file.Filename)
		}

		fileContent, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("error opening file: %w", err)
		}

		fileBytes, err := io.ReadAll(fileContent)
		fileContent.Close()
		if err != nil {
			return nil, fmt.Errorf("error reading file content: %w", err)
		}

		fileType, err := filetype.Match(fileBytes)
		if err != nil || fileType == types.Unknown {
			return nil, fmt.Errorf("unsupported file type: %s", file.Filename)
		}
		if _, ok := allowedTypes[fileType.Extension]; !ok {
			return nil, fmt.Errorf("file type %s is not allowed, only images", fileType.Extension)
		}

		id, err := gonanoid.New()
		if err != nil {
			slog.Error(err.Error())
			return nil, err
		}
		filename := fmt.Sprintf("image-%s.%s", id, fileType.Extension)

		url, err := s.store.Save(ctx, filename, fileBytes, fileType.MIME.Value)
		if err != nil {
			return nil, fmt.Errorf("error storing file: %w", err)
		}

		image := &models.Image{
			Filename:     filename,
			OriginalName: file.Filename,
			URL:          url,
			FilePath:     filename,
			Size:         int64(len(fileBytes)),
			Mimetype:     fileType.MIME.Value,
			UploadedAt:   time.Now(),
		}

		imageID, err := s.ir.Create(ctx, image)
		if err != nil {
			return nil, fmt.Errorf("error saving image record: %w", err)
		}
		image.ID = imageID
		images = append(images, image)
	}

	return images, nil
}

func (s *imageService) List(ctx context.Context) ([]*models.Image, error) {
	images, err := s.ir.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing images: %w", err)
	}
	return images, nil
}

func (s *imageService) Info(ctx context.Context, imageID int64) (*models.Image, error) {
	image, err := s.ir.GetByID(ctx, imageID)
	if err != nil {
		return nil, fmt.Errorf("error loading image %d: %w", imageID, err)
	}
	if image == nil {
		return nil, ErrImageNotFound
	}
	return image, nil
}

func (s *imageService) Remove(ctx context.Context, imageID int64) error {
	image, err := s.ir.GetByID(ctx, imageID)
	if err != nil {
		return fmt.Errorf("error loading image %d: %w", imageID, err)
	}
	if image == nil {
		return ErrImageNotFound
	}

	// refuse to leave dangling references behind
	if image.IsUsed {
		return ErrImageInUse
	}

	if err := s.store.Remove(ctx, image.Filename); err != nil {
		return fmt.Errorf("error removing stored file: %w", err)
	}

	if err := s.ir.Remove(ctx, imageID); err != nil {
		return fmt.Errorf("error removing image %d: %w", imageID, err)
	}

	return nil
}
