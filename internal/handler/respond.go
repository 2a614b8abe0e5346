package handler

import (
	"errors"

	"bakeshop-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps the service error kinds onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrInsufficientStock):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
}
