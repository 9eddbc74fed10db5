package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/linkplace/placeflow/internal/models"
)

type PlacementContentRepository interface {
	CountByPair(ctx context.Context, tx *sql.Tx, projectID, siteID int64) (int, error)
	ListByPlacement(ctx context.Context, tx *sql.Tx, placementID int64) ([]*models.PlacementContent, error)
	Exists(ctx context.Context, tx *sql.Tx, placementID int64, linkID, articleID sql.NullInt64) (bool, error)
	Attach(ctx context.Context, tx *sql.Tx, pc *models.PlacementContent) error
}

type placementContentRepository struct {
	db *sql.DB
}

func NewPlacementContentRepository(db *sql.DB) PlacementContentRepository {
	return &placementContentRepository{db: db}
}

// CountByPair counts content rows already attached to the pair's placement.
// A non-zero count means the pair is taken for its lifetime.
func (r *placementContentRepository) CountByPair(ctx context.Context, tx *sql.Tx, projectID, siteID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM placement_content pc
		JOIN placements p ON p.id = pc.placement_id
		WHERE p.project_id = $1 AND p.site_id = $2
	`
	var count int
	err := tx.QueryRowContext(ctx, query, projectID, siteID).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

func (r *placementContentRepository) ListByPlacement(ctx context.Context, tx *sql.Tx, placementID int64) ([]*models.PlacementContent, error) {
	query := "SELECT placement_id, link_id, article_id, created_at FROM placement_content WHERE placement_id = $1"

	var rows *sql.Rows
	var err error
	if tx != nil {
		rows, err = tx.QueryContext(ctx, query, placementID)
	} else {
		rows, err = r.db.QueryContext(ctx, query, placementID)
	}
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var contents []*models.PlacementContent
	for rows.Next() {
		var pc models.PlacementContent
		err := rows.Scan(&pc.PlacementID, &pc.LinkID, &pc.ArticleID, &pc.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		contents = append(contents, &pc)
	}
	return contents, rows.Err()
}

func (r *placementContentRepository) Exists(ctx context.Context, tx *sql.Tx, placementID int64, linkID, articleID sql.NullInt64) (bool, error) {
	query := `
		SELECT 1 FROM placement_content
		WHERE placement_id = $1
		  AND link_id IS NOT DISTINCT FROM $2
		  AND article_id IS NOT DISTINCT FROM $3
	`
	var result int
	err := tx.QueryRowContext(ctx, query, placementID, linkID, articleID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return result == 1, nil
}

func (r *placementContentRepository) Attach(ctx context.Context, tx *sql.Tx, pc *models.PlacementContent) error {
	query := `
		INSERT INTO placement_content (placement_id, link_id, article_id)
		VALUES ($1, $2, $3)
	`
	_, err := tx.ExecContext(ctx, query, pc.PlacementID, pc.LinkID, pc.ArticleID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
