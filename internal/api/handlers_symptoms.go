package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) GetSymptoms(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"symptoms": handler.symptomService.BuiltinSymptoms()})
}

func (handler *Handler) GetSymptomFrequencies(c *fiber.Ctx) error {
	from, err := parseOptionalDayQuery(c, "from")
	if err != nil {
		return handler.serviceError(c, err)
	}
	to, err := parseOptionalDayQuery(c, "to")
	if err != nil {
		return handler.serviceError(c, err)
	}

	frequencies, err := handler.symptomService.Frequencies(c.UserContext(), currentUserID(c), from, to)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"frequencies": frequencies})
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
