package models

import "time"

type Project struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type ProjectLink struct {
	ID         int64     `db:"id" json:"id"`
	ProjectID  int64     `db:"project_id" json:"project_id"`
	URL        string    `db:"url" json:"url"`
	AnchorText string    `db:"anchor_text" json:"anchor_text"`
	UsageLimit int       `db:"usage_limit" json:"usage_limit"`
	UsageCount int       `db:"usage_count" json:"usage_count"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

type ProjectArticle struct {
	ID         int64     `db:"id" json:"id"`
	ProjectID  int64     `db:"project_id" json:"project_id"`
	Title      string    `db:"title" json:"title"`
	Body       string    `db:"body" json:"body"`
	ImageURL   string    `db:"image_url" json:"image_url"`
	UsageLimit int       `db:"usage_limit" json:"usage_limit"`
	UsageCount int       `db:"usage_count" json:"usage_count"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

const (
	ContentStatusActive    = "active"
	ContentStatusExhausted = "exhausted"

	// Articles are single-use, links may be placed on many sites.
	DefaultLinkUsageLimit    = 100
	DefaultArticleUsageLimit = 1
)
