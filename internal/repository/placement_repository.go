package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/linkplace/placeflow/internal/models"
)

const placementSelectList = `id, project_id, site_id, type, status, original_price, discount_applied, final_price,
	purchased_at, published_at, scheduled_publish_date, expires_at, last_renewed_at, renewal_count, auto_renewal, remote_post_id`

type PlacementRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Placement, bool, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.Placement, error)
	FindByPair(ctx context.Context, tx *sql.Tx, projectID, siteID int64) (*models.Placement, error)
	Create(ctx context.Context, tx *sql.Tx, placement *models.Placement) (int64, error)
	UpdatePricing(ctx context.Context, tx *sql.Tx, id, original int64, discount int, final int64) error
	UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status string) error
	MarkPlaced(ctx context.Context, tx *sql.Tx, id int64, remotePostID sql.NullString, expiresAt sql.NullTime) error
	Renew(ctx context.Context, tx *sql.Tx, id int64, expiresAt time.Time) error
	Remove(ctx context.Context, tx *sql.Tx, id int64) error
	ListBySite(ctx context.Context, tx *sql.Tx, siteID int64) ([]*models.Placement, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Placement, error)
	ListExpired(ctx context.Context, now time.Time) ([]*models.Placement, error)
}

type placementRepository struct {
	db *sql.DB
}

func NewPlacementRepository(db *sql.DB) PlacementRepository {
	return &placementRepository{db: db}
}

func scanPlacement(row interface{ Scan(...any) error }) (*models.Placement, error) {
	var p models.Placement
	err := row.Scan(&p.ID, &p.ProjectID, &p.SiteID, &p.Type, &p.Status,
		&p.OriginalPrice, &p.DiscountApplied, &p.FinalPrice,
		&p.PurchasedAt, &p.PublishedAt, &p.ScheduledPublishDate, &p.ExpiresAt,
		&p.LastRenewedAt, &p.RenewalCount, &p.AutoRenewal, &p.RemotePostID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *placementRepository) GetByID(ctx context.Context, id int64) (*models.Placement, bool, error) {
	query := "SELECT " + placementSelectList + " FROM placements WHERE id = $1"
	p, err := scanPlacement(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return p, true, nil
}

func (r *placementRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.Placement, error) {
	query := "SELECT " + placementSelectList + " FROM placements WHERE id = $1 FOR UPDATE"
	p, err := scanPlacement(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return p, nil
}

// FindByPair returns the placement for a (project, site) pair, if any. There is
// at most one; callers hold the pair lock when this matters.
func (r *placementRepository) FindByPair(ctx context.Context, tx *sql.Tx, projectID, siteID int64) (*models.Placement, error) {
	query := "SELECT " + placementSelectList + " FROM placements WHERE project_id = $1 AND site_id = $2"
	p, err := scanPlacement(tx.QueryRowContext(ctx, query, projectID, siteID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return p, nil
}

func (r *placementRepository) Create(ctx context.Context, tx *sql.Tx, placement *models.Placement) (int64, error) {
	query := `
		INSERT INTO placements (project_id, site_id, type, status, original_price, discount_applied, final_price,
			purchased_at, scheduled_publish_date, auto_renewal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var id int64
	err := tx.QueryRowContext(ctx, query, placement.ProjectID, placement.SiteID, placement.Type, placement.Status,
		placement.OriginalPrice, placement.DiscountApplied, placement.FinalPrice,
		time.Now(), placement.ScheduledPublishDate, placement.AutoRenewal).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *placementRepository) UpdatePricing(ctx context.Context, tx *sql.Tx, id, original int64, discount int, final int64) error {
	query := `
		UPDATE placements
		SET original_price = $1,
			discount_applied = $2,
			final_price = $3
		WHERE id = $4
	`
	_, err := tx.ExecContext(ctx, query, original, discount, final, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *placementRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id int64, status string) error {
	query := `UPDATE placements SET status = $1 WHERE id = $2`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, status, id)
	} else {
		_, err = r.db.ExecContext(ctx, query, status, id)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *placementRepository) MarkPlaced(ctx context.Context, tx *sql.Tx, id int64, remotePostID sql.NullString, expiresAt sql.NullTime) error {
	query := `
		UPDATE placements
		SET status = $1,
			published_at = $2,
			expires_at = $3,
			remote_post_id = $4
		WHERE id = $5
	`
	_, err := tx.ExecContext(ctx, query, models.PlacementStatusPlaced, time.Now(), expiresAt, remotePostID, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *placementRepository) Renew(ctx context.Context, tx *sql.Tx, id int64, expiresAt time.Time) error {
	query := `
		UPDATE placements
		SET expires_at = $1,
			renewal_count = renewal_count + 1,
			last_renewed_at = $2
		WHERE id = $3
	`
	_, err := tx.ExecContext(ctx, query, expiresAt, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *placementRepository) Remove(ctx context.Context, tx *sql.Tx, id int64) error {
	query := `DELETE FROM placements WHERE id = $1`
	_, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *placementRepository) ListBySite(ctx context.Context, tx *sql.Tx, siteID int64) ([]*models.Placement, error) {
	query := "SELECT " + placementSelectList + " FROM placements WHERE site_id = $1"

	var rows *sql.Rows
	var err error
	if tx != nil {
		rows, err = tx.QueryContext(ctx, query, siteID)
	} else {
		rows, err = r.db.QueryContext(ctx, query, siteID)
	}
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return collectPlacements(rows)
}

func (r *placementRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Placement, error) {
	query := `
		SELECT ` + placementQualifiedSelectList + `
		FROM placements p
		JOIN projects pr ON pr.id = p.project_id
		WHERE pr.user_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return collectPlacements(rows)
}

func (r *placementRepository) ListExpired(ctx context.Context, now time.Time) ([]*models.Placement, error) {
	query := "SELECT " + placementSelectList + ` FROM placements
		WHERE type = $1 AND status = $2 AND expires_at IS NOT NULL AND expires_at <= $3`
	rows, err := r.db.QueryContext(ctx, query, models.PlacementTypeLink, models.PlacementStatusPlaced, now)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return collectPlacements(rows)
}

const placementQualifiedSelectList = `p.id, p.project_id, p.site_id, p.type, p.status, p.original_price, p.discount_applied, p.final_price,
	p.purchased_at, p.published_at, p.scheduled_publish_date, p.expires_at, p.last_renewed_at, p.renewal_count, p.auto_renewal, p.remote_post_id`

func collectPlacements(rows *sql.Rows) ([]*models.Placement, error) {
	var placements []*models.Placement
	for rows.Next() {
		p, err := scanPlacement(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		placements = append(placements, p)
	}
	return placements, rows.Err()
}
