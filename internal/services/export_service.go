package services

import (
	"context"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/cycletrack/internal/apperr"
	"github.com/terraincognita07/cycletrack/internal/models"
)

var ExportCSVHeaders = []string{
	"Start",
	"End",
	"Length",
	"Flow",
	"Pain",
	"Mood",
	"Symptoms",
	"Notes",
}

type ExportService struct {
	periods PeriodStore
}

type ExportSummary struct {
	TotalPeriods int    `json:"total_periods"`
	HasData      bool   `json:"has_data"`
	DateFrom     string `json:"date_from"`
	DateTo       string `json:"date_to"`
}

type ExportJSONEntry struct {
	Start     string   `json:"start"`
	End       *string  `json:"end"`
	Length    *int     `json:"length"`
	Flow      string   `json:"flow"`
	PainLevel *int     `json:"pain_level"`
	Mood      *string  `json:"mood"`
	Symptoms  []string `json:"symptoms"`
	Notes     string   `json:"notes"`
}

type ExportCSVRow struct {
	Start     string
	End       string
	Length    string
	Flow      string
	PainLevel string
	Mood      string
	Symptoms  []string
	Notes     string
}

func NewExportService(periods PeriodStore) *ExportService {
	return &ExportService{periods: periods}
}

// LoadPeriodsForRange returns periods starting within [from, to], oldest first.
func (service *ExportService) LoadPeriodsForRange(ctx context.Context, userID string, from *time.Time, to *time.Time) ([]models.Period, error) {
	periods, err := service.periods.ListPeriods(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap("export periods", userID, time.Time{}, err)
	}

	filtered := make([]models.Period, 0, len(periods))
	for _, period := range periods {
		start := NormalizeDate(period.StartDate)
		if from != nil && start.Before(NormalizeDate(*from)) {
			continue
		}
		if to != nil && start.After(NormalizeDate(*to)) {
			continue
		}
		filtered = append(filtered, period)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].StartDate.Before(filtered[j].StartDate)
	})
	return filtered, nil
}

func (service *ExportService) BuildSummary(ctx context.Context, userID string, from *time.Time, to *time.Time) (ExportSummary, error) {
	periods, err := service.LoadPeriodsForRange(ctx, userID, from, to)
	if err != nil {
		return ExportSummary{}, err
	}
	if len(periods) == 0 {
		return ExportSummary{}, nil
	}
	return ExportSummary{
		TotalPeriods: len(periods),
		HasData:      true,
		DateFrom:     FormatDay(periods[0].StartDate),
		DateTo:       FormatDay(periods[len(periods)-1].StartDate),
	}, nil
}

func (service *ExportService) BuildJSONEntries(ctx context.Context, userID string, from *time.Time, to *time.Time) ([]ExportJSONEntry, error) {
	periods, err := service.LoadPeriodsForRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	entries := make([]ExportJSONEntry, 0, len(periods))
	for _, period := range periods {
		entry := ExportJSONEntry{
			Start:     FormatDay(period.StartDate),
			Flow:      period.Flow,
			PainLevel: period.PainLevel,
			Mood:      period.Mood,
			Symptoms:  period.Symptoms,
			Notes:     period.Notes,
		}
		if entry.Symptoms == nil {
			entry.Symptoms = []string{}
		}
		if period.EndDate != nil {
			end := FormatDay(*period.EndDate)
			length := periodLengthDays(period)
			entry.End = &end
			entry.Length = &length
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (service *ExportService) BuildCSVRows(ctx context.Context, userID string, from *time.Time, to *time.Time) ([]ExportCSVRow, error) {
	periods, err := service.LoadPeriodsForRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]ExportCSVRow, 0, len(periods))
	for _, period := range periods {
		row := ExportCSVRow{
			Start:    FormatDay(period.StartDate),
			Flow:     period.Flow,
			Symptoms: period.Symptoms,
			Notes:    period.Notes,
		}
		if period.EndDate != nil {
			row.End = FormatDay(*period.EndDate)
			row.Length = strconv.Itoa(periodLengthDays(period))
		}
		if period.PainLevel != nil {
			row.PainLevel = strconv.Itoa(*period.PainLevel)
		}
		if period.Mood != nil {
			row.Mood = *period.Mood
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (row ExportCSVRow) Columns() []string {
	return []string{
		row.Start,
		row.End,
		row.Length,
		row.Flow,
		row.PainLevel,
		row.Mood,
		strings.Join(row.Symptoms, "; "),
		row.Notes,
	}
}

// WriteCSV writes the header line followed by one record per row.
func WriteCSV(w io.Writer, rows []ExportCSVRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportCSVHeaders); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row.Columns()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func periodLengthDays(period models.Period) int {
	if period.EndDate == nil {
		return 0
	}
	return DaysBetween(period.StartDate, *period.EndDate) + 1
}
