package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/cycletrack/internal/services"
)

func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	settings, err := handler.settingsService.GetSettings(c.UserContext(), currentUserID(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(settings)
}

func (handler *Handler) UpdateSettings(c *fiber.Ctx) error {
	payload := cycleSettingsPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "error.validation")
	}

	result, err := handler.settingsService.UpdateSettings(c.UserContext(), currentUserID(c), services.CycleSettingsInput{
		CycleLength:  payload.CycleLength,
		PeriodLength: payload.PeriodLength,
	}, handler.today())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(result)
}
