package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/terraincognita07/cycletrack/internal/apperr"
	"github.com/terraincognita07/cycletrack/internal/services"
)

const retryAfterSeconds = "5"

func (handler *Handler) apiError(c *fiber.Ctx, status int, key string) error {
	return c.Status(status).JSON(fiber.Map{"error": handler.i18n.Translate(currentLanguage(c), key)})
}

// serviceError maps the error taxonomy onto HTTP. InvalidState is checked before NotFound
// so ending an already closed period reports a conflict.
func (handler *Handler) serviceError(c *fiber.Ctx, err error) error {
	language := currentLanguage(c)
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  handler.i18n.Translate(language, "error.validation"),
			"detail": validationDetail(err),
		})
	case errors.Is(err, apperr.ErrInvalidState):
		return handler.apiError(c, fiber.StatusConflict, "error.invalid_state")
	case errors.Is(err, apperr.ErrNotFound):
		return handler.apiError(c, fiber.StatusNotFound, "error.not_found")
	case errors.Is(err, apperr.ErrStoreUnavailable):
		handler.logger.Warn("store unavailable", zap.String("path", c.Path()), zap.Error(err))
		c.Set(fiber.HeaderRetryAfter, retryAfterSeconds)
		return handler.apiError(c, fiber.StatusServiceUnavailable, "error.store_unavailable")
	case errors.Is(err, apperr.ErrStoreWrite):
		handler.logger.Error("store write failed", zap.String("path", c.Path()), zap.Error(err))
		return handler.apiError(c, fiber.StatusInternalServerError, "error.store_write")
	default:
		handler.logger.Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
		return handler.apiError(c, fiber.StatusInternalServerError, "error.internal")
	}
}

// validationDetail drops the operation prefix so clients see only the validation message.
func validationDetail(err error) string {
	var opErr *apperr.OpError
	for errors.As(err, &opErr) && opErr.Err != nil {
		err = opErr.Err
	}
	return strings.TrimPrefix(err.Error(), apperr.ErrValidation.Error()+": ")
}

func parseDayParam(c *fiber.Ctx, name string) (time.Time, error) {
	return services.ParseDay(c.Params(name))
}

func parseOptionalDayQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	day, err := services.ParseDay(raw)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// parseMonthQuery reads ?month=YYYY-MM, defaulting to the month of today.
func parseMonthQuery(c *fiber.Ctx, today time.Time) (time.Time, error) {
	raw := strings.TrimSpace(c.Query("month"))
	if raw == "" {
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	month, err := time.ParseInLocation("2006-01", raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month %q", apperr.ErrInvalidDate, raw)
	}
	return month, nil
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("cycletrack-export-%s.%s", now.Format("2006-01-02"), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
