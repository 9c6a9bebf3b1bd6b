package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/pagequeue/pagequeue/internal/models"
)

type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Image, error)
	List(ctx context.Context) ([]*models.Image, error)
	ListUnused(ctx context.Context) ([]*models.Image, error)
	SetUsed(ctx context.Context, id int64, used bool) error
	Remove(ctx context.Context, id int64) error
}

type imageRepository struct {
	db *sql.DB
}

func NewImageRepository(db *sql.DB) ImageRepository {
	return &imageRepository{db: db}
}

const imageColumns = `id, filename, original_name, url, file_path, size, mimetype,
	uploaded_at, is_used, created_at, updated_at`

func scanImage(row interface{ Scan(...interface{}) error }) (*models.Image, error) {
	var image models.Image
	err := row.Scan(&image.ID, &image.Filename, &image.OriginalName, &image.URL,
		&image.FilePath, &image.Size, &image.Mimetype, &image.UploadedAt,
		&image.IsUsed, &image.CreatedAt, &image.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) Create(ctx context.Context, image *models.Image) (int64, error) {
	query := `
		INSERT INTO images (filename, original_name, url, file_path, size, mimetype, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, image.Filename, image.OriginalName, image.URL,
		image.FilePath, image.Size, image.Mimetype, image.UploadedAt).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *imageRepository) GetByID(ctx context.Context, id int64) (*models.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE id = $1`

	image, err := scanImage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return image, nil
}

func (r *imageRepository) List(ctx context.Context) ([]*models.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images ORDER BY uploaded_at DESC`
	return r.queryImages(ctx, query)
}

func (r *imageRepository) ListUnused(ctx context.Context) ([]*models.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE is_used = false ORDER BY uploaded_at DESC`
	return r.queryImages(ctx, query)
}

func (r *imageRepository) queryImages(ctx context.Context, query string, args ...interface{}) ([]*models.Image, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var images []*models.Image
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func (r *imageRepository) SetUsed(ctx context.Context, id int64, used bool) error {
	query := `UPDATE images SET is_used = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, used, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *imageRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM images WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
