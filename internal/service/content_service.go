package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linkplace/placeflow/internal/apperr"
	"github.com/linkplace/placeflow/internal/models"
	"github.com/linkplace/placeflow/internal/repository"
	"github.com/linkplace/placeflow/internal/transfer"
)

type ContentService interface {
	CreateProject(ctx context.Context, userID int64, pc *transfer.ProjectCreation) (int64, error)
	ListProjects(ctx context.Context, userID int64) ([]*models.Project, error)
	CreateLink(ctx context.Context, userID int64, lc *transfer.LinkCreation) (int64, error)
	ListLinks(ctx context.Context, userID, projectID int64) ([]*models.ProjectLink, error)
	CreateArticle(ctx context.Context, userID int64, ac *transfer.ArticleCreation) (int64, error)
	ListArticles(ctx context.Context, userID, projectID int64) ([]*models.ProjectArticle, error)
}

type contentService struct {
	proj    repository.ProjectRepository
	link    repository.LinkRepository
	article repository.ArticleRepository
}

func NewContentService(
	proj repository.ProjectRepository,
	link repository.LinkRepository,
	article repository.ArticleRepository) ContentService {
	return &contentService{
		proj:    proj,
		link:    link,
		article: article,
	}
}

func (s *contentService) CreateProject(ctx context.Context, userID int64, pc *transfer.ProjectCreation) (int64, error) {
	if pc == nil || pc.Name == "" {
		err := apperr.New(apperr.KindValidation, "project name is required")
		slog.Info(err.Error())
		return 0, err
	}

	id, err := s.proj.Create(ctx, &models.Project{UserID: userID, Name: pc.Name})
	if err != nil {
		return 0, fmt.Errorf("error creating project: %w", err)
	}
	return id, nil
}

func (s *contentService) ListProjects(ctx context.Context, userID int64) ([]*models.Project, error) {
	projects, err := s.proj.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing projects: %w", err)
	}
	return projects, nil
}

func (s *contentService) CreateLink(ctx context.Context, userID int64, lc *transfer.LinkCreation) (int64, error) {
	if lc == nil || lc.URL == "" {
		err := apperr.New(apperr.KindValidation, "link URL is required")
		slog.Info(err.Error())
		return 0, err
	}

	if err := s.checkProject(ctx, lc.ProjectID, userID); err != nil {
		return 0, err
	}

	usageLimit := lc.UsageLimit
	if usageLimit <= 0 {
		usageLimit = models.DefaultLinkUsageLimit
	}

	id, err := s.link.Create(ctx, &models.ProjectLink{
		ProjectID:  lc.ProjectID,
		URL:        lc.URL,
		AnchorText: lc.AnchorText,
		UsageLimit: usageLimit,
	})
	if err != nil {
		return 0, fmt.Errorf("error creating link: %w", err)
	}
	return id, nil
}

func (s *contentService) ListLinks(ctx context.Context, userID, projectID int64) ([]*models.ProjectLink, error) {
	if err := s.checkProject(ctx, projectID, userID); err != nil {
		return nil, err
	}

	links, err := s.link.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("error listing links: %w", err)
	}
	return links, nil
}

func (s *contentService) CreateArticle(ctx context.Context, userID int64, ac *transfer.ArticleCreation) (int64, error) {
	if ac == nil || ac.Title == "" || ac.Body == "" {
		err := apperr.New(apperr.KindValidation, "article title and body are required")
		slog.Info(err.Error())
		return 0, err
	}

	if err := s.checkProject(ctx, ac.ProjectID, userID); err != nil {
		return 0, err
	}

	id, err := s.article.Create(ctx, &models.ProjectArticle{
		ProjectID:  ac.ProjectID,
		Title:      ac.Title,
		Body:       ac.Body,
		ImageURL:   ac.ImageURL,
		UsageLimit: models.DefaultArticleUsageLimit,
	})
	if err != nil {
		return 0, fmt.Errorf("error creating article: %w", err)
	}
	return id, nil
}

func (s *contentService) ListArticles(ctx context.Context, userID, projectID int64) ([]*models.ProjectArticle, error) {
	if err := s.checkProject(ctx, projectID, userID); err != nil {
		return nil, err
	}

	articles, err := s.article.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("error listing articles: %w", err)
	}
	return articles, nil
}

func (s *contentService) checkProject(ctx context.Context, projectID, userID int64) error {
	owns, err := s.proj.CheckByUserID(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !owns {
		err = apperr.New(apperr.KindUnauthorized, "project does not belong to user")
		slog.Info(err.Error())
		return err
	}
	return nil
}
