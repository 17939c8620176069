package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/farm-advisor/internal/logging"
	"github.com/i474232898/farm-advisor/internal/store"
	"github.com/i474232898/farm-advisor/internal/weather"
)

// ErrorHandler renders every handler error as {"error": true, "message": ...}
// with a status derived from the error's type.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, msg := classify(err)
	if code >= fiber.StatusInternalServerError {
		logging.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", code).
			Msg("request failed")
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": msg,
	})
}

func classify(err error) (int, string) {
	var fe *fiber.Error
	var ve validator.ValidationErrors

	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, ve.Error()
	case errors.Is(err, weather.ErrInvalidDays):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, weather.ErrProviderUnavailable):
		return fiber.StatusBadGateway, err.Error()
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound, "no weather data for requested location or range"
	case errors.Is(err, weather.ErrHistoryDisabled):
		return fiber.StatusServiceUnavailable, err.Error()
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
