package models

import (
	"database/sql"
	"time"
)

type Placement struct {
	ID                   int64          `db:"id" json:"id"`
	ProjectID            int64          `db:"project_id" json:"project_id"`
	SiteID               int64          `db:"site_id" json:"site_id"`
	Type                 string         `db:"type" json:"type"` // link, article
	Status               string         `db:"status" json:"status"`
	OriginalPrice        int64          `db:"original_price" json:"original_price"`
	DiscountApplied      int            `db:"discount_applied" json:"discount_applied"`
	FinalPrice           int64          `db:"final_price" json:"final_price"`
	PurchasedAt          time.Time      `db:"purchased_at" json:"purchased_at"`
	PublishedAt          sql.NullTime   `db:"published_at" json:"published_at"`
	ScheduledPublishDate sql.NullTime   `db:"scheduled_publish_date" json:"scheduled_publish_date"`
	ExpiresAt            sql.NullTime   `db:"expires_at" json:"expires_at"`
	LastRenewedAt        sql.NullTime   `db:"last_renewed_at" json:"last_renewed_at"`
	RenewalCount         int            `db:"renewal_count" json:"renewal_count"`
	AutoRenewal          bool           `db:"auto_renewal" json:"auto_renewal"`
	RemotePostID         sql.NullString `db:"remote_post_id" json:"remote_post_id"`
}

// PlacementContent attaches exactly one link or one article to a placement.
type PlacementContent struct {
	PlacementID int64         `db:"placement_id" json:"placement_id"`
	LinkID      sql.NullInt64 `db:"link_id" json:"link_id"`
	ArticleID   sql.NullInt64 `db:"article_id" json:"article_id"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

const (
	PlacementTypeLink    = "link"
	PlacementTypeArticle = "article"

	PlacementStatusPending     = "pending"
	PlacementStatusScheduled   = "scheduled"
	PlacementStatusPlaced      = "placed"
	PlacementStatusPartialFail = "partial_fail"
	PlacementStatusFailed      = "failed"
	PlacementStatusExpired     = "expired"
	PlacementStatusCancelled   = "cancelled"
)
