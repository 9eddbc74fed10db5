package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/linkplace/placeflow/internal/service"
	"github.com/linkplace/placeflow/internal/transfer"
)

type SiteHandler struct {
	s service.SiteService
}

func NewSiteHandler(service service.SiteService) *SiteHandler {
	return &SiteHandler{s: service}
}

func (h *SiteHandler) RegisterSite(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var sr transfer.SiteRegistration
	if err := c.BodyParser(&sr); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	siteID, err := h.s.Register(c.Context(), userID, &sr)
	if err != nil {
		return ErrorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"site_id": siteID,
	})
}

func (h *SiteHandler) ListSites(c *fiber.Ctx) error {
	userID := GetUserID(c)

	sites, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list sites",
		})
	}

	return c.Status(fiber.StatusOK).JSON(sites)
}

func (h *SiteHandler) RemoveSite(c *fiber.Ctx) error {
	userID := GetUserID(c)
	siteID := c.QueryInt("id", 0)

	err := h.s.Remove(c.Context(), userID, int64(siteID))
	if err != nil {
		return ErrorJSON(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}
