package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/linkplace/placeflow/internal/models"
)

type LinkRepository interface {
	GetByID(ctx context.Context, id int64) (*models.ProjectLink, bool, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.ProjectLink, error)
	Create(ctx context.Context, link *models.ProjectLink) (int64, error)
	ListByProject(ctx context.Context, projectID int64) ([]*models.ProjectLink, error)
	AddUsage(ctx context.Context, tx *sql.Tx, id int64, delta int) error
}

type linkRepository struct {
	db *sql.DB
}

func NewLinkRepository(db *sql.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) GetByID(ctx context.Context, id int64) (*models.ProjectLink, bool, error) {
	var link models.ProjectLink
	query := "SELECT id, project_id, url, anchor_text, usage_limit, usage_count, status FROM project_links WHERE id = $1"
	err := r.db.QueryRowContext(ctx, query, id).Scan(&link.ID, &link.ProjectID, &link.URL, &link.AnchorText, &link.UsageLimit, &link.UsageCount, &link.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &link, true, nil
}

func (r *linkRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.ProjectLink, error) {
	var link models.ProjectLink
	query := "SELECT id, project_id, url, anchor_text, usage_limit, usage_count, status FROM project_links WHERE id = $1 FOR UPDATE"
	err := tx.QueryRowContext(ctx, query, id).Scan(&link.ID, &link.ProjectID, &link.URL, &link.AnchorText, &link.UsageLimit, &link.UsageCount, &link.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) Create(ctx context.Context, link *models.ProjectLink) (int64, error) {
	query := `
		INSERT INTO project_links (project_id, url, anchor_text, usage_limit, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, link.ProjectID, link.URL, link.AnchorText, link.UsageLimit, models.ContentStatusActive).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *linkRepository) ListByProject(ctx context.Context, projectID int64) ([]*models.ProjectLink, error) {
	query := "SELECT id, project_id, url, anchor_text, usage_limit, usage_count, status FROM project_links WHERE project_id = $1"
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var links []*models.ProjectLink
	for rows.Next() {
		var link models.ProjectLink
		err := rows.Scan(&link.ID, &link.ProjectID, &link.URL, &link.AnchorText, &link.UsageLimit, &link.UsageCount, &link.Status)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		links = append(links, &link)
	}
	return links, nil
}

// AddUsage moves usage_count by delta (floored at zero) and keeps status in
// step: exhausted iff usage_count >= usage_limit.
func (r *linkRepository) AddUsage(ctx context.Context, tx *sql.Tx, id int64, delta int) error {
	query := `
		UPDATE project_links
		SET usage_count = GREATEST(usage_count + $1, 0),
			status = CASE WHEN GREATEST(usage_count + $1, 0) >= usage_limit THEN 'exhausted' ELSE 'active' END,
			updated_at = $2
		WHERE id = $3
	`
	_, err := tx.ExecContext(ctx, query, delta, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
