package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/cycletrack/internal/services"
)

func (handler *Handler) ListPeriods(c *fiber.Ctx) error {
	periods, err := handler.periodService.ListPeriods(c.UserContext(), currentUserID(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"periods": periods})
}

func (handler *Handler) StartPeriod(c *fiber.Ctx) error {
	payload := periodStartPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "error.validation")
	}
	today := handler.today()
	date, err := payloadDate(payload.Date, today)
	if err != nil {
		return handler.serviceError(c, err)
	}

	result, err := handler.periodService.StartPeriod(c.UserContext(), currentUserID(c), date, services.PeriodStartInput{
		Flow:      payload.Flow,
		PainLevel: payload.PainLevel,
		Mood:      payload.Mood,
		Symptoms:  payload.Symptoms,
		Notes:     payload.Notes,
	}, today)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (handler *Handler) EndPeriod(c *fiber.Ctx) error {
	payload := periodEndPayload{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return handler.apiError(c, fiber.StatusBadRequest, "error.validation")
		}
	}
	today := handler.today()
	date, err := payloadDate(payload.Date, today)
	if err != nil {
		return handler.serviceError(c, err)
	}

	result, err := handler.periodService.EndPeriod(c.UserContext(), currentUserID(c), c.Params("id"), date, services.PeriodEndInput{
		PainLevel: payload.PainLevel,
		Mood:      payload.Mood,
		Symptoms:  payload.Symptoms,
		Notes:     payload.Notes,
	}, today)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(result)
}

// payloadDate parses an optional request date, defaulting to today.
func payloadDate(raw string, today time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return today, nil
	}
	return services.ParseDay(raw)
}
