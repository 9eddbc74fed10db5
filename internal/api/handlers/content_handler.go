package handlers

import (
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/linkplace/placeflow/internal/service"
	"github.com/linkplace/placeflow/internal/transfer"
)

type ContentHandler struct {
	s      service.ContentService
	assets *service.AssetService
}

func NewContentHandler(service service.ContentService, assets *service.AssetService) *ContentHandler {
	return &ContentHandler{s: service, assets: assets}
}

func (h *ContentHandler) CreateProject(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var pc transfer.ProjectCreation
	if err := c.BodyParser(&pc); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	projectID, err := h.s.CreateProject(c.Context(), userID, &pc)
	if err != nil {
		return ErrorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"project_id": projectID,
	})
}

func (h *ContentHandler) ListProjects(c *fiber.Ctx) error {
	userID := GetUserID(c)

	projects, err := h.s.ListProjects(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list projects",
		})
	}

	return c.Status(fiber.StatusOK).JSON(projects)
}

func (h *ContentHandler) CreateLink(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var lc transfer.LinkCreation
	if err := c.BodyParser(&lc); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	linkID, err := h.s.CreateLink(c.Context(), userID, &lc)
	if err != nil {
		return ErrorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"link_id": linkID,
	})
}

func (h *ContentHandler) ListLinks(c *fiber.Ctx) error {
	userID := GetUserID(c)
	projectID := c.QueryInt("project_id", 0)

	links, err := h.s.ListLinks(c.Context(), userID, int64(projectID))
	if err != nil {
		return ErrorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(links)
}

func (h *ContentHandler) CreateArticle(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var ac transfer.ArticleCreation
	if err := c.BodyParser(&ac); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	articleID, err := h.s.CreateArticle(c.Context(), userID, &ac)
	if err != nil {
		return ErrorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"article_id": articleID,
	})
}

func (h *ContentHandler) ListArticles(c *fiber.Ctx) error {
	userID := GetUserID(c)
	projectID := c.QueryInt("project_id", 0)

	articles, err := h.s.ListArticles(c.Context(), userID, int64(projectID))
	if err != nil {
		return ErrorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(articles)
}

func (h *ContentHandler) UploadArticleImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file selected",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to open file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to read file",
		})
	}

	url, err := h.assets.UploadArticleImage(c.Context(), data)
	if err != nil {
		return ErrorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"image_url": url,
	})
}
