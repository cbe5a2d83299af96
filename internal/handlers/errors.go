package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/candilyzer/internal/models"
	"alfredoptarigan/candilyzer/internal/services"
)

const (
	msgMissingCredentials = "Please enter all API keys in the sidebar."
	msgInternal           = "Internal server error"
)

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{Error: message, Code: status})
}

// statusFor maps service errors raised before a stream opens.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrMissingCredentials),
		errors.Is(err, services.ErrInvalidResume):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrSessionBusy):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// messageFor returns the text shown to the user. Server errors stay opaque.
func messageFor(err error, status int) string {
	switch {
	case status >= fiber.StatusInternalServerError:
		return msgInternal
	case errors.Is(err, services.ErrMissingCredentials):
		return msgMissingCredentials
	}
	return err.Error()
}

// respondServiceError writes err with its mapped status, logging server errors.
func respondServiceError(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return respondError(c, status, messageFor(err, status))
}

// NewErrorHandler renders every unhandled error as {error, code}.
func NewErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			return respondError(c, fe.Code, fe.Message)
		}
		return respondServiceError(c, log, err)
	}
}
