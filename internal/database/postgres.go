package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS images (
	id BIGSERIAL PRIMARY KEY,
	filename TEXT NOT NULL UNIQUE,
	original_name TEXT NOT NULL,
	url TEXT NOT NULL,
	file_path TEXT NOT NULL,
	size BIGINT NOT NULL,
	mimetype TEXT NOT NULL,
	uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	is_used BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS posts (
	id BIGSERIAL PRIMARY KEY,
	image_id BIGINT NOT NULL REFERENCES images(id),
	caption TEXT NOT NULL,
	selected_variation TEXT NOT NULL DEFAULT '',
	custom_caption TEXT NOT NULL DEFAULT '',
	final_caption TEXT NOT NULL,
	scheduled_time TIMESTAMPTZ NOT NULL,
	status TEXT NOT NULL DEFAULT 'queued',
	platform TEXT NOT NULL DEFAULT 'facebook',
	platform_post_id TEXT NOT NULL DEFAULT '',
	is_automatic BOOLEAN NOT NULL DEFAULT false,
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	posted_at TIMESTAMPTZ
);
`

func Connect(postgresURI string) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database is unreachable: %w", err)
	}

	return db, nil
}

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_posts_status ON posts(status)",
		"CREATE INDEX IF NOT EXISTS idx_posts_scheduled_time ON posts(scheduled_time)",
		"CREATE INDEX IF NOT EXISTS idx_posts_platform ON posts(platform)",
		"CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_images_uploaded_at ON images(uploaded_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_images_is_used ON images(is_used)",
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
