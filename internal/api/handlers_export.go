package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/cycletrack/internal/services"
)

func (handler *Handler) exportRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	return services.ParseExportRange(c.Query("from"), c.Query("to"))
}

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	from, to, err := handler.exportRange(c)
	if err != nil {
		return handler.serviceError(c, err)
	}

	summary, err := handler.exportService.BuildSummary(c.UserContext(), currentUserID(c), from, to)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(summary)
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	from, to, err := handler.exportRange(c)
	if err != nil {
		return handler.serviceError(c, err)
	}

	rows, err := handler.exportService.BuildCSVRows(c.UserContext(), currentUserID(c), from, to)
	if err != nil {
		return handler.serviceError(c, err)
	}

	var output bytes.Buffer
	if err := services.WriteCSV(&output, rows); err != nil {
		return handler.serviceError(c, err)
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(handler.today(), "csv"))
	return c.Send(output.Bytes())
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	from, to, err := handler.exportRange(c)
	if err != nil {
		return handler.serviceError(c, err)
	}

	entries, err := handler.exportService.BuildJSONEntries(c.UserContext(), currentUserID(c), from, to)
	if err != nil {
		return handler.serviceError(c, err)
	}

	now := handler.now().In(handler.location)
	payload := fiber.Map{
		"exported_at": now.Format(time.RFC3339),
		"entries":     entries,
	}
	serialized, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return handler.serviceError(c, err)
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(now, "json"))
	return c.Send(serialized)
}
