package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/linkplace/placeflow/internal/apperr"
)

func GetUserID(c *fiber.Ctx) int64 {
	userID, _ := strconv.Atoi(c.Locals("user_id").(string))
	return int64(userID)
}

// StatusFromError maps the error taxonomy onto HTTP statuses. Conflicting
// purchases and exhausted quotas are client conflicts, not server faults.
func StatusFromError(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindUnauthorized:
		return fiber.StatusForbidden
	case apperr.KindAlreadyPlaced, apperr.KindQuotaExhausted, apperr.KindContentExhausted:
		return fiber.StatusConflict
	case apperr.KindInsufficientBalance:
		return fiber.StatusPaymentRequired
	case apperr.KindTransient:
		return fiber.StatusServiceUnavailable
	case apperr.KindPublishFailure:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func ErrorJSON(c *fiber.Ctx, err error) error {
	return c.Status(StatusFromError(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
