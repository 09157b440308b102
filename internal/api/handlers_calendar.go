package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/cycletrack/internal/services"
)

// calendarLogPadding covers the leading and trailing days of the Sunday-first grid.
const calendarLogPadding = 7

type calendarDayResponse struct {
	services.CalendarDayState
	PhaseLabel  string   `json:"phase_label,omitempty"`
	DetailTexts []string `json:"detail_texts"`
}

type dayInfoResponse struct {
	services.DayInfo
	PhaseLabel  string   `json:"phase_label,omitempty"`
	DetailTexts []string `json:"detail_texts"`
}

func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	today := handler.today()
	month, err := parseMonthQuery(c, today)
	if err != nil {
		return handler.serviceError(c, err)
	}

	userID := currentUserID(c)
	chain, err := handler.cycleService.CycleChain(c.UserContext(), userID, today)
	if err != nil {
		return handler.serviceError(c, err)
	}

	from := services.AddDays(month, -calendarLogPadding)
	to := services.AddDays(month.AddDate(0, 1, -1), calendarLogPadding)
	logs, err := handler.dailyLogService.ListDailyLogs(c.UserContext(), userID, &from, &to)
	if err != nil {
		return handler.serviceError(c, err)
	}

	language := currentLanguage(c)
	grid := services.BuildCalendarMonth(month, chain, logs, today)
	days := make([]calendarDayResponse, 0, len(grid))
	for _, day := range grid {
		days = append(days, calendarDayResponse{
			CalendarDayState: day,
			PhaseLabel:       handler.phaseLabel(language, day.Phase),
			DetailTexts:      handler.localizedDetails(language, day.Details),
		})
	}

	return c.JSON(fiber.Map{
		"month": month.Format("2006-01"),
		"today": services.FormatDay(today),
		"days":  days,
	})
}

func (handler *Handler) GetCalendarDay(c *fiber.Ctx) error {
	day, err := parseDayParam(c, "date")
	if err != nil {
		return handler.serviceError(c, err)
	}

	today := handler.today()
	userID := currentUserID(c)
	chain, err := handler.cycleService.CycleChain(c.UserContext(), userID, today)
	if err != nil {
		return handler.serviceError(c, err)
	}
	entry, err := handler.dailyLogService.GetDailyLog(c.UserContext(), userID, day)
	if err != nil {
		return handler.serviceError(c, err)
	}

	language := currentLanguage(c)
	info := services.ClassifyDate(day, chain, today)
	return c.JSON(fiber.Map{
		"day": dayInfoResponse{
			DayInfo:     info,
			PhaseLabel:  handler.phaseLabel(language, info.Phase),
			DetailTexts: handler.localizedDetails(language, info.Details),
		},
		"entry":    entry,
		"has_data": services.DayHasData(entry),
	})
}
