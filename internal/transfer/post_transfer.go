package transfer

import (
	"time"

	"github.com/pagequeue/pagequeue/internal/models"
)

type PostCreation struct {
	ImageID           int64  `json:"image_id"`
	Caption           string `json:"caption"`
	SelectedVariation string `json:"selected_variation"`
	CustomCaption     string `json:"custom_caption"`
	ScheduledTime     string `json:"scheduled_time"`
	Platform          string `json:"platform"`
	IsAutomatic       bool   `json:"is_automatic"`
}

type PostUpdate struct {
	PostID        int64  `json:"post_id"`
	FinalCaption  string `json:"final_caption"`
	ScheduledTime string `json:"scheduled_time"`
	Platform      string `json:"platform"`
	Status        string `json:"status"`
}

type PostListFilter struct {
	Status   string
	Platform string
	Limit    int
	Page     int
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type PostList struct {
	Posts      []*models.Post `json:"posts"`
	Pagination Pagination     `json:"pagination"`
}

type PublishResult struct {
	PostID         int64      `json:"post_id"`
	PlatformPostID string     `json:"platform_post_id"`
	PostedAt       *time.Time `json:"posted_at,omitempty"`
}
