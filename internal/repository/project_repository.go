package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/linkplace/placeflow/internal/models"
)

type ProjectRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Project, bool, error)
	Create(ctx context.Context, project *models.Project) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Project, error)
	CheckByUserID(ctx context.Context, projectID, userID int64) (bool, error)
}

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) GetByID(ctx context.Context, id int64) (*models.Project, bool, error) {
	var project models.Project
	query := "SELECT id, user_id, name, created_at FROM projects WHERE id = $1"
	err := r.db.QueryRowContext(ctx, query, id).Scan(&project.ID, &project.UserID, &project.Name, &project.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &project, true, nil
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) (int64, error) {
	query := "INSERT INTO projects (user_id, name) VALUES ($1, $2) RETURNING id"
	var id int64
	err := r.db.QueryRowContext(ctx, query, project.UserID, project.Name).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *projectRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Project, error) {
	query := "SELECT id, user_id, name, created_at FROM projects WHERE user_id = $1"
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var project models.Project
		err := rows.Scan(&project.ID, &project.UserID, &project.Name, &project.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		projects = append(projects, &project)
	}
	return projects, nil
}

func (r *projectRepository) CheckByUserID(ctx context.Context, projectID, userID int64) (bool, error) {
	query := "SELECT 1 FROM projects WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, projectID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return result == 1, nil
}
