package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Use(handler.RequestObserver)
	app.Use(handler.LanguageMiddleware)

	app.Get("/healthz", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api", handler.AuthRequired)

	cycle := api.Group("/cycle")
	cycle.Get("", handler.GetCycle)
	cycle.Get("/history", handler.GetCycleHistory)

	calendar := api.Group("/calendar")
	calendar.Get("", handler.GetCalendar)
	calendar.Get("/day/:date", handler.GetCalendarDay)

	periods := api.Group("/periods")
	periods.Get("", handler.ListPeriods)
	periods.Post("/start", handler.StartPeriod)
	periods.Post("/:id/end", handler.EndPeriod)

	settings := api.Group("/settings")
	settings.Get("", handler.GetSettings)
	settings.Put("", handler.UpdateSettings)

	days := api.Group("/days")
	days.Get("", handler.GetDays)
	days.Get("/:date", handler.GetDay)
	days.Post("/:date", handler.UpsertDay)

	symptoms := api.Group("/symptoms")
	symptoms.Get("", handler.GetSymptoms)
	symptoms.Get("/frequencies", handler.GetSymptomFrequencies)

	export := api.Group("/export")
	export.Get("/summary", handler.ExportSummary)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/json", handler.ExportJSON)
}
