package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/linkplace/placeflow/internal/service"
	"github.com/linkplace/placeflow/internal/transfer"
)

type UserHandler struct {
	s service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{s: service}
}

func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	userID := GetUserID(c)

	userInfo, err := h.s.GetUserInfo(c.Context(), userID)
	if err != nil {
		return ErrorJSON(c, err)
	}

	return c.JSON(userInfo)
}

func (h *UserHandler) Deposit(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var d transfer.Deposit
	if err := c.BodyParser(&d); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.s.Deposit(c.Context(), userID, d.Amount); err != nil {
		return ErrorJSON(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *UserHandler) ListTransactions(c *fiber.Ctx) error {
	userID := GetUserID(c)

	transactions, err := h.s.Transactions(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list transactions",
		})
	}

	return c.Status(fiber.StatusOK).JSON(transactions)
}
