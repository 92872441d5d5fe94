package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"officehub-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

// respondError turns a usecase error into its HTTP status. Only unexpected failures are
// logged at error level; their text is not sent to the client.
func respondError(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	if status == fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}
	slog.DebugContext(c.UserContext(), "request rejected", "path", c.Path(), "status", status, "error", err)
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, usecase.ErrAlreadyActive), errors.Is(err, usecase.ErrNotActive):
		return fiber.StatusBadRequest
	case errors.Is(err, usecase.ErrDuplicateRecord), errors.Is(err, usecase.ErrAlreadyClosed), errors.Is(err, usecase.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, usecase.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, usecase.ErrUnauthorized):
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}

func badRequest(field, reason string) error {
	return &usecase.ValidationError{Field: field, Reason: reason}
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest(name, "must be a positive number")
	}
	return uint(id), nil
}
