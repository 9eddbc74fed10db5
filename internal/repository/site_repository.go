package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/linkplace/placeflow/internal/models"
)

const siteSelectList = "id, user_id, base_url, kind, credential, max_links, used_links, max_articles, used_articles, link_price, article_price"

type SiteRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Site, bool, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.Site, error)
	Create(ctx context.Context, site *models.Site) (int64, error)
	ListByOwner(ctx context.Context, userID int64) ([]*models.Site, error)
	AddUsage(ctx context.Context, tx *sql.Tx, id int64, links, articles int) error
	ZeroUsage(ctx context.Context, tx *sql.Tx, id int64) error
	Remove(ctx context.Context, tx *sql.Tx, id int64) error
}

type siteRepository struct {
	db *sql.DB
}

func NewSiteRepository(db *sql.DB) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) GetByID(ctx context.Context, id int64) (*models.Site, bool, error) {
	query := "SELECT " + siteSelectList + " FROM sites WHERE id = $1"
	site, err := r.scanSite(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return site, true, nil
}

// GetForUpdate locks the site row. This is the first row locked in every
// placement mutation (Site -> ContentItem -> User).
func (r *siteRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.Site, error) {
	query := "SELECT " + siteSelectList + " FROM sites WHERE id = $1 FOR UPDATE"
	site, err := r.scanSite(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return site, nil
}

func (r *siteRepository) scanSite(row *sql.Row) (*models.Site, error) {
	var site models.Site
	err := row.Scan(&site.ID, &site.UserID, &site.BaseURL, &site.Kind, &site.Credential,
		&site.MaxLinks, &site.UsedLinks, &site.MaxArticles, &site.UsedArticles,
		&site.LinkPrice, &site.ArticlePrice)
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepository) Create(ctx context.Context, site *models.Site) (int64, error) {
	query := `
		INSERT INTO sites (user_id, base_url, kind, credential, max_links, max_articles, link_price, article_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, site.UserID, site.BaseURL, site.Kind, site.Credential,
		site.MaxLinks, site.MaxArticles, site.LinkPrice, site.ArticlePrice).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *siteRepository) ListByOwner(ctx context.Context, userID int64) ([]*models.Site, error) {
	query := "SELECT " + siteSelectList + " FROM sites WHERE user_id = $1"
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var sites []*models.Site
	for rows.Next() {
		var site models.Site
		err := rows.Scan(&site.ID, &site.UserID, &site.BaseURL, &site.Kind, &site.Credential,
			&site.MaxLinks, &site.UsedLinks, &site.MaxArticles, &site.UsedArticles,
			&site.LinkPrice, &site.ArticlePrice)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		sites = append(sites, &site)
	}
	return sites, nil
}

// AddUsage adjusts the usage counters by the given deltas, floored at zero.
func (r *siteRepository) AddUsage(ctx context.Context, tx *sql.Tx, id int64, links, articles int) error {
	query := `
		UPDATE sites
		SET used_links = GREATEST(used_links + $1, 0),
			used_articles = GREATEST(used_articles + $2, 0),
			updated_at = $3
		WHERE id = $4
	`
	_, err := tx.ExecContext(ctx, query, links, articles, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *siteRepository) ZeroUsage(ctx context.Context, tx *sql.Tx, id int64) error {
	query := `
		UPDATE sites
		SET used_links = 0,
			used_articles = 0,
			updated_at = $1
		WHERE id = $2
	`
	_, err := tx.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *siteRepository) Remove(ctx context.Context, tx *sql.Tx, id int64) error {
	query := `DELETE FROM sites WHERE id = $1`
	_, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
