package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/cycletrack/internal/services"
)

type cycleResponse struct {
	services.CycleSnapshot
	Today      string `json:"today"`
	PhaseLabel string `json:"phase_label,omitempty"`
}

func (handler *Handler) GetCycle(c *fiber.Ctx) error {
	today := handler.today()
	snapshot, err := handler.cycleService.GetCycleSnapshot(c.UserContext(), currentUserID(c), today)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(handler.buildCycleResponse(currentLanguage(c), snapshot, today))
}

func (handler *Handler) GetCycleHistory(c *fiber.Ctx) error {
	history, err := handler.cycleService.CycleHistory(c.UserContext(), currentUserID(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"cycles": history})
}

func (handler *Handler) buildCycleResponse(language string, snapshot services.CycleSnapshot, today time.Time) cycleResponse {
	return cycleResponse{
		CycleSnapshot: snapshot,
		Today:         services.FormatDay(today),
		PhaseLabel:    handler.phaseLabel(language, snapshot.CurrentCycle.Phase),
	}
}

func (handler *Handler) phaseLabel(language string, phase services.Phase) string {
	if phase == services.PhaseNone {
		return ""
	}
	return handler.i18n.Translate(language, "phase."+string(phase))
}

func (handler *Handler) localizedDetails(language string, details []services.DayDetail) []string {
	texts := make([]string, 0, len(details))
	for _, detail := range details {
		texts = append(texts, handler.i18n.Translatef(language, detail.Key, detail.Args...))
	}
	return texts
}
