package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/cycletrack/internal/services"
)

func (handler *Handler) GetDays(c *fiber.Ctx) error {
	from, err := parseOptionalDayQuery(c, "from")
	if err != nil {
		return handler.serviceError(c, err)
	}
	to, err := parseOptionalDayQuery(c, "to")
	if err != nil {
		return handler.serviceError(c, err)
	}

	logs, err := handler.dailyLogService.ListDailyLogs(c.UserContext(), currentUserID(c), from, to)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"entries": logs})
}

func (handler *Handler) GetDay(c *fiber.Ctx) error {
	day, err := parseDayParam(c, "date")
	if err != nil {
		return handler.serviceError(c, err)
	}

	entry, err := handler.dailyLogService.GetDailyLog(c.UserContext(), currentUserID(c), day)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(entry)
}

func (handler *Handler) UpsertDay(c *fiber.Ctx) error {
	day, err := parseDayParam(c, "date")
	if err != nil {
		return handler.serviceError(c, err)
	}
	payload := dayPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "error.validation")
	}

	result, err := handler.dailyLogService.UpsertDailyLog(c.UserContext(), currentUserID(c), day, services.DailyLogInput{
		Flow:      payload.Flow,
		Mood:      payload.Mood,
		PainLevel: payload.PainLevel,
		Symptoms:  payload.Symptoms,
		Notes:     payload.Notes,
	}, handler.today())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(result)
}
