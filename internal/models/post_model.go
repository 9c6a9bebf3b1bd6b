package models

import "time"

const (
	PostStatusQueued    = "queued"
	PostStatusPosted    = "posted"
	PostStatusFailed    = "failed"
	PostStatusCancelled = "cancelled"
)

const PlatformFacebook = "facebook"

type Post struct {
	ID                int64      `db:"id" json:"id"`
	ImageID           int64      `db:"image_id" json:"image_id"`
	Caption           string     `db:"caption" json:"caption"`
	SelectedVariation string     `db:"selected_variation" json:"selected_variation,omitempty"`
	CustomCaption     string     `db:"custom_caption" json:"custom_caption,omitempty"`
	FinalCaption      string     `db:"final_caption" json:"final_caption"`
	ScheduledTime     time.Time  `db:"scheduled_time" json:"scheduled_time"`
	Status            string     `db:"status" json:"status"`
	Platform          string     `db:"platform" json:"platform"`
	PlatformPostID    string     `db:"platform_post_id" json:"platform_post_id,omitempty"`
	IsAutomatic       bool       `db:"is_automatic" json:"is_automatic"`
	ErrorMessage      string     `db:"error_message" json:"error_message,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
	PostedAt          *time.Time `db:"posted_at" json:"posted_at,omitempty"`
}

// IsTerminal reports whether no further automatic transition can happen.
func (p *Post) IsTerminal() bool {
	return p.Status == PostStatusPosted || p.Status == PostStatusFailed || p.Status == PostStatusCancelled
}

// CanTransitionTo checks the lifecycle rules: queued is the only source of
// transitions, and queued itself is only entered at creation.
func (p *Post) CanTransitionTo(status string) bool {
	if p.Status != PostStatusQueued {
		return false
	}
	switch status {
	case PostStatusPosted, PostStatusFailed, PostStatusCancelled:
		return true
	}
	return false
}

// CanEdit reports whether caption/time/platform edits are still allowed.
func (p *Post) CanEdit() bool {
	return p.Status == PostStatusQueued
}

// CanDelete reports whether the post may be removed. Published content is
// kept forever.
func (p *Post) CanDelete() bool {
	return p.Status != PostStatusPosted
}

// ResolveFinalCaption applies the precedence used at creation time:
// custom override, then the selected variation, then the base caption.
func ResolveFinalCaption(caption, selectedVariation, customCaption string) string {
	if customCaption != "" {
		return customCaption
	}
	if selectedVariation != "" {
		return selectedVariation
	}
	return caption
}
