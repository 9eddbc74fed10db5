package models

import "time"

// SiteDeletionAudit summarizes one site-deletion cascade.
type SiteDeletionAudit struct {
	ID                   int64     `db:"id" json:"id"`
	SiteID               int64     `db:"site_id" json:"site_id"`
	SiteBaseURL          string    `db:"site_base_url" json:"site_base_url"`
	PlacementsRemoved    int       `db:"placements_removed" json:"placements_removed"`
	AmountRefunded       int64     `db:"amount_refunded" json:"amount_refunded"`
	TierChanges          int       `db:"tier_changes" json:"tier_changes"`
	RemoteDeleteFailures int       `db:"remote_delete_failures" json:"remote_delete_failures"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}
