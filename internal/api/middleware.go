package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LanguageMiddleware picks the response language from ?lang= first, then Accept-Language.
func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	language := handler.i18n.DetectFromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage))
	if queryLanguage := c.Query("lang"); queryLanguage != "" {
		language = handler.i18n.NormalizeLanguage(queryLanguage)
	}
	c.Locals(contextLanguageKey, language)
	c.Set(fiber.HeaderContentLanguage, language)
	return c.Next()
}

// RequestObserver logs each request and records its status and latency.
func (handler *Handler) RequestObserver(c *fiber.Ctx) error {
	started := time.Now()
	err := c.Next()
	elapsed := time.Since(started)

	status := c.Response().StatusCode()
	if err != nil {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	route := c.Route().Path
	handler.metrics.ObserveRequest(c.Method(), route, status, elapsed)

	fields := []zap.Field{
		zap.String("method", c.Method()),
		zap.String("route", route),
		zap.Int("status", status),
		zap.Duration("latency", elapsed),
	}
	switch {
	case status >= fiber.StatusInternalServerError:
		handler.logger.Error("request failed", append(fields, zap.Error(err))...)
	case status >= fiber.StatusBadRequest:
		handler.logger.Info("request rejected", fields...)
	default:
		handler.logger.Debug("request served", fields...)
	}
	return err
}

func currentLanguage(c *fiber.Ctx) string {
	language, _ := c.Locals(contextLanguageKey).(string)
	return language
}
