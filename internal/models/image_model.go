package models

import "time"

type Image struct {
	ID           int64     `db:"id" json:"id"`
	Filename     string    `db:"filename" json:"filename"`
	OriginalName string    `db:"original_name" json:"original_name"`
	URL          string    `db:"url" json:"url"`
	FilePath     string    `db:"file_path" json:"-"`
	Size         int64     `db:"size" json:"size"`
	Mimetype     string    `db:"mimetype" json:"mimetype"`
	UploadedAt   time.Time `db:"uploaded_at" json:"uploaded_at"`
	IsUsed       bool      `db:"is_used" json:"is_used"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
