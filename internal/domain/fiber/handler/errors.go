package handler

import (
	"errors"

	"github.com/fadilmartias/job-coach-ai/internal/model"
	"github.com/fadilmartias/job-coach-ai/internal/util"
	"github.com/gofiber/fiber/v2"
)

// errorStatus maps domain errors to an HTTP status and a user-facing message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrDataUnavailable):
		return fiber.StatusServiceUnavailable, "Error loading data"
	case errors.Is(err, model.ErrNoDocumentsProduced):
		return fiber.StatusUnprocessableEntity, "No documents created"
	case errors.Is(err, model.ErrExternalCallFailure):
		return fiber.StatusBadGateway, "AI provider request failed"
	case errors.Is(err, model.ErrMissingAPIKey):
		return fiber.StatusUnauthorized, "API key not configured"
	case errors.Is(err, model.ErrInvalidQuestion):
		return fiber.StatusBadRequest, "Question is required"
	case errors.Is(err, model.ErrUnknownSample):
		return fiber.StatusNotFound, "Sample question not found"
	case errors.Is(err, model.ErrUnknownProvider):
		return fiber.StatusInternalServerError, "AI provider not configured"
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}

func respondError(c *fiber.Ctx, err error) error {
	code, message := errorStatus(err)
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    code,
		Message: message,
	}, err)
}
