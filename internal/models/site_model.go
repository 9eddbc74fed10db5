package models

import "time"

type Site struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	BaseURL      string    `db:"base_url" json:"base_url"`
	Kind         string    `db:"kind" json:"kind"` // cms, static
	Credential   string    `db:"credential" json:"-"`
	MaxLinks     int       `db:"max_links" json:"max_links"`
	UsedLinks    int       `db:"used_links" json:"used_links"`
	MaxArticles  int       `db:"max_articles" json:"max_articles"`
	UsedArticles int       `db:"used_articles" json:"used_articles"`
	LinkPrice    int64     `db:"link_price" json:"link_price"`
	ArticlePrice int64     `db:"article_price" json:"article_price"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

const (
	SiteKindCMS    = "cms"
	SiteKindStatic = "static"
)
