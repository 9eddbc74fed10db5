package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/linkplace/placeflow/internal/models"
)

type ArticleRepository interface {
	GetByID(ctx context.Context, id int64) (*models.ProjectArticle, bool, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.ProjectArticle, error)
	Create(ctx context.Context, article *models.ProjectArticle) (int64, error)
	ListByProject(ctx context.Context, projectID int64) ([]*models.ProjectArticle, error)
	AddUsage(ctx context.Context, tx *sql.Tx, id int64, delta int) error
}

type articleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) GetByID(ctx context.Context, id int64) (*models.ProjectArticle, bool, error) {
	var article models.ProjectArticle
	query := "SELECT id, project_id, title, body, image_url, usage_limit, usage_count, status FROM project_articles WHERE id = $1"
	err := r.db.QueryRowContext(ctx, query, id).Scan(&article.ID, &article.ProjectID, &article.Title, &article.Body, &article.ImageURL, &article.UsageLimit, &article.UsageCount, &article.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &article, true, nil
}

func (r *articleRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.ProjectArticle, error) {
	var article models.ProjectArticle
	query := "SELECT id, project_id, title, body, image_url, usage_limit, usage_count, status FROM project_articles WHERE id = $1 FOR UPDATE"
	err := tx.QueryRowContext(ctx, query, id).Scan(&article.ID, &article.ProjectID, &article.Title, &article.Body, &article.ImageURL, &article.UsageLimit, &article.UsageCount, &article.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) Create(ctx context.Context, article *models.ProjectArticle) (int64, error) {
	query := `
		INSERT INTO project_articles (project_id, title, body, image_url, usage_limit, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, article.ProjectID, article.Title, article.Body, article.ImageURL, article.UsageLimit, models.ContentStatusActive).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *articleRepository) ListByProject(ctx context.Context, projectID int64) ([]*models.ProjectArticle, error) {
	query := "SELECT id, project_id, title, body, image_url, usage_limit, usage_count, status FROM project_articles WHERE project_id = $1"
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var articles []*models.ProjectArticle
	for rows.Next() {
		var article models.ProjectArticle
		err := rows.Scan(&article.ID, &article.ProjectID, &article.Title, &article.Body, &article.ImageURL, &article.UsageLimit, &article.UsageCount, &article.Status)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		articles = append(articles, &article)
	}
	return articles, nil
}

func (r *articleRepository) AddUsage(ctx context.Context, tx *sql.Tx, id int64, delta int) error {
	query := `
		UPDATE project_articles
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
