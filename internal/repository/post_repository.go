package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pagequeue/pagequeue/internal/models"
)

type PostFilter struct {
	Status   string
	Platform string
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, error)
	Count(ctx context.Context, filter PostFilter) (int64, error)
	ListDue(ctx context.Context, from, to time.Time) ([]*models.Post, error)
	ListUpcoming(ctx context.Context, from, to time.Time, limit int) ([]*models.Post, error)
	UpdateDetails(ctx context.Context, post *models.Post) (bool, error)
	MarkPosted(ctx context.Context, id int64, platformPostID string, postedAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, id int64, errorMessage string) (bool, error)
	CountByImageID(ctx context.Context, imageID int64) (int64, error)
	Remove(ctx context.Context, id int64) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, image_id, caption, selected_variation, custom_caption, final_caption,
	scheduled_time, status, platform, platform_post_id, is_automatic, error_message,
	created_at, updated_at, posted_at`

func scanPost(row interface{ Scan(...interface{}) error }) (*models.Post, error) {
	var post models.Post
	var postedAt sql.NullTime
	err := row.Scan(&post.ID, &post.ImageID, &post.Caption, &post.SelectedVariation,
		&post.CustomCaption, &post.FinalCaption, &post.ScheduledTime, &post.Status,
		&post.Platform, &post.PlatformPostID, &post.IsAutomatic, &post.ErrorMessage,
		&post.CreatedAt, &post.UpdatedAt, &postedAt)
	if err != nil {
		return nil, err
	}
	if postedAt.Valid {
		post.PostedAt = &postedAt.Time
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (image_id, caption, selected_variation, custom_caption, final_caption,
			scheduled_time, status, platform, is_automatic)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, post.ImageID, post.Caption, post.SelectedVariation,
		post.CustomCaption, post.FinalCaption, post.ScheduledTime, post.Status,
		post.Platform, post.IsAutomatic).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE id = $1`, postColumns)

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (filter PostFilter) where() (string, []interface{}) {
	clause := ""
	args := []interface{}{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clause += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Platform != "" {
		args = append(args, filter.Platform)
		clause += fmt.Sprintf(" AND platform = $%d", len(args))
	}
	return clause, args
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, error) {
	clause, args := filter.where()
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE 1=1%s ORDER BY scheduled_time ASC LIMIT $%d OFFSET $%d`,
		postColumns, clause, len(args)-1, len(args))

	return r.queryPosts(ctx, query, args...)
}

func (r *postRepository) Count(ctx context.Context, filter PostFilter) (int64, error) {
	clause, args := filter.where()
	query := fmt.Sprintf(`SELECT COUNT(*) FROM posts WHERE 1=1%s`, clause)

	var total int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return total, nil
}

func (r *postRepository) ListDue(ctx context.Context, from, to time.Time) ([]*models.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts
		WHERE status = $1 AND scheduled_time >= $2 AND scheduled_time <= $3
		ORDER BY scheduled_time ASC`, postColumns)

	return r.queryPosts(ctx, query, models.PostStatusQueued, from, to)
}

func (r *postRepository) ListUpcoming(ctx context.Context, from, to time.Time, limit int) ([]*models.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts
		WHERE status = $1 AND scheduled_time >= $2 AND scheduled_time <= $3
		ORDER BY scheduled_time ASC LIMIT $4`, postColumns)

	return r.queryPosts(ctx, query, models.PostStatusQueued, from, to, limit)
}

func (r *postRepository) queryPosts(ctx context.Context, query string, args ...interface{}) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// UpdateDetails rewrites the editable fields. The row must still be queued;
// the result reports whether the update was applied.
func (r *postRepository) UpdateDetails(ctx context.Context, post *models.Post) (bool, error) {
	query := `
		UPDATE posts
		SET final_caption = $1,
			scheduled_time = $2,
			platform = $3,
			status = $4,
			updated_at = $5
		WHERE id = $6 AND status = $7
	`
	res, err := r.db.ExecContext(ctx, query, post.FinalCaption, post.ScheduledTime,
		post.Platform, post.Status, time.Now(), post.ID, models.PostStatusQueued)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkPosted applies the queued -> posted transition. The status guard makes
// the write conditional so at most one publisher wins a given post.
func (r *postRepository) MarkPosted(ctx context.Context, id int64, platformPostID string, postedAt time.Time) (bool, error) {
	query := `
		UPDATE posts
		SET status = $1,
			platform_post_id = $2,
			posted_at = $3,
			error_message = '',
			updated_at = $4
		WHERE id = $5 AND status = $6
	`
	res, err := r.db.ExecContext(ctx, query, models.PostStatusPosted, platformPostID,
		postedAt, time.Now(), id, models.PostStatusQueued)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkFailed applies the queued -> failed transition under the same guard.
func (r *postRepository) MarkFailed(ctx context.Context, id int64, errorMessage string) (bool, error) {
	query := `
		UPDATE posts
		SET status = $1,
			error_message = $2,
			updated_at = $3
		WHERE id = $4 AND status = $5
	`
	res, err := r.db.ExecContext(ctx, query, models.PostStatusFailed, errorMessage,
		time.Now(), id, models.PostStatusQueued)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *postRepository) CountByImageID(ctx context.Context, imageID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM posts WHERE image_id = $1`

	var total int64
	if err := r.db.QueryRowContext(ctx, query, imageID).Scan(&total); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return total, nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
