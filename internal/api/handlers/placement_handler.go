package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"github.com/linkplace/placeflow/internal/models"
	"github.com/linkplace/placeflow/internal/queue"
	"github.com/linkplace/placeflow/internal/service"
	"github.com/linkplace/placeflow/internal/transfer"
)

type PlacementHandler struct {
	s           service.PlacementService
	AsynqClient *asynq.Client
}

func NewPlacementHandler(service service.PlacementService, asynqClient *asynq.Client) *PlacementHandler {
	return &PlacementHandler{s: service, AsynqClient: asynqClient}
}

func (h *PlacementHandler) CreatePlacement(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var pc transfer.PlacementCreation
	if err := c.BodyParser(&pc); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	result, err := h.s.Create(c.Context(), userID, &pc)
	if err != nil {
		return ErrorJSON(c, err)
	}

	if result.Status == models.PlacementStatusScheduled {
		err = queue.EnqueuePlacement(h.AsynqClient, queue.PublishPlacementPayload{PlacementID: result.PlacementID}, result.Delay)
		if err != nil {
			slog.Error(err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error scheduling placement",
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"placement_id": result.PlacementID,
		"status":       result.Status,
		"final_price":  result.FinalPrice,
	})
}

func (h *PlacementHandler) ListPlacements(c *fiber.Ctx) error {
	userID := GetUserID(c)

	placements, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list placements",
		})
	}

	return c.Status(fiber.StatusOK).JSON(placements)
}

func (h *PlacementHandler) RemovePlacement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	placementID := c.QueryInt("id", 0)

	err := h.s.Remove(c.Context(), userID, int64(placementID))
	if err != nil {
		return ErrorJSON(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PlacementHandler) RenewPlacement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	placementID := c.QueryInt("id", 0)

	price, err := h.s.Renew(c.Context(), userID, int64(placementID))
	if err != nil {
		return ErrorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"price": price,
	})
}
