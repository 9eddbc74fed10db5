package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/linkplace/placeflow/internal/models"
)

type AuditRepository interface {
	Create(ctx context.Context, tx *sql.Tx, audit *models.SiteDeletionAudit) (int64, error)
}

type auditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, tx *sql.Tx, audit *models.SiteDeletionAudit) (int64, error) {
	query := `
		INSERT INTO site_deletion_audits (site_id, site_base_url, placements_removed, amount_refunded, tier_changes, remote_delete_failures)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := tx.QueryRowContext(ctx, query, audit.SiteID, audit.SiteBaseURL, audit.PlacementsRemoved,
		audit.AmountRefunded, audit.TierChanges, audit.RemoteDeleteFailures).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}
