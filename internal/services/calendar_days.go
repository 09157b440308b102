package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/cycletrack/internal/models"
)

type Phase string

const (
	PhaseNone       Phase = ""
	PhaseMenstrual  Phase = "menstrual"
	PhaseFollicular Phase = "follicular"
	PhaseOvulation  Phase = "ovulation"
	PhaseFertile    Phase = "fertile"
	PhaseLuteal     Phase = "luteal"
)

const (
	DetailPeriodDay              = "detail.period_day"
	DetailPredictedPeriodDay     = "detail.predicted_period_day"
	DetailExpectedIn             = "detail.expected_in"
	DetailPeakFertility          = "detail.peak_fertility"
	DetailPredictedPeakFertility = "detail.predicted_peak_fertility"
	DetailFertileDay             = "detail.fertile_day"
	DetailPredictedFertileDay    = "detail.predicted_fertile_day"
	DetailHighConception         = "detail.high_conception"
	DetailPredictedFollicular    = "detail.predicted_follicular_phase"
	DetailPredictedLuteal        = "detail.predicted_luteal_phase"
)

// DefaultDetailMessages is the English rendering of day details.
var DefaultDetailMessages = map[string]string{
	DetailPeriodDay:              "Period day %d of %d",
	DetailPredictedPeriodDay:     "Predicted period day %d of %d",
	DetailExpectedIn:             "Expected in %d days",
	DetailPeakFertility:          "Peak fertility day",
	DetailPredictedPeakFertility: "Predicted peak fertility day",
	DetailFertileDay:             "Fertile day",
	DetailPredictedFertileDay:    "Predicted fertile day",
	DetailHighConception:         "High chance of conception",
	DetailPredictedFollicular:    "Predicted follicular phase",
	DetailPredictedLuteal:        "Predicted luteal phase",
}

type DayDetail struct {
	Key  string `json:"key"`
	Args []any  `json:"args,omitempty"`
}

func (detail DayDetail) Text() string {
	format, ok := DefaultDetailMessages[detail.Key]
	if !ok {
		return detail.Key
	}
	if len(detail.Args) == 0 {
		return format
	}
	return fmt.Sprintf(format, detail.Args...)
}

// DayInfo classifies one calendar day. CycleDay is zero and Phase empty when the day
// falls outside every known cycle.
type DayInfo struct {
	Date         time.Time   `json:"date"`
	CycleDay     int         `json:"cycle_day,omitempty"`
	Phase        Phase       `json:"phase,omitempty"`
	IsPeriod     bool        `json:"is_period"`
	IsOvulation  bool        `json:"is_ovulation"`
	IsFertile    bool        `json:"is_fertile"`
	IsPrediction bool        `json:"is_prediction"`
	DaysUntil    int         `json:"days_until"`
	Details      []DayDetail `json:"details"`
}

func (info DayInfo) DetailTexts() []string {
	texts := make([]string, 0, len(info.Details))
	for _, detail := range info.Details {
		texts = append(texts, detail.Text())
	}
	return texts
}

func (info *DayInfo) addDetail(key string, args ...any) {
	info.Details = append(info.Details, DayDetail{Key: key, Args: args})
}

// ClassifyDate resolves the cycle containing date and assigns exactly one phase using the
// precedence menstrual, ovulation, fertile, follicular, luteal.
func ClassifyDate(date time.Time, chain *CycleChain, now time.Time) DayInfo {
	day := NormalizeDate(date)
	today := NormalizeDate(now)

	info := DayInfo{
		Date:         day,
		IsPrediction: day.After(today),
		DaysUntil:    DaysBetween(today, day),
		Details:      []DayDetail{},
	}

	cycle, ok := chain.CycleFor(day)
	if !ok {
		return info
	}

	cycleDay := DaysBetween(cycle.PeriodStart, day) + 1
	for attempt := 0; cycleDay > cycle.CycleLength && attempt < maxPredictionCorrections; attempt++ {
		next, found := chain.CycleFor(cycle.NextPeriodStart)
		if !found {
			break
		}
		cycle = next
		cycleDay = DaysBetween(cycle.PeriodStart, day) + 1
	}
	if cycleDay < 1 {
		return info
	}
	info.CycleDay = cycleDay
	info.Phase = phaseForDay(day, cycle)

	switch info.Phase {
	case PhaseMenstrual:
		info.IsPeriod = true
		dayOfPeriod := DaysBetween(cycle.PeriodStart, day) + 1
		if info.IsPrediction {
			info.addDetail(DetailPredictedPeriodDay, dayOfPeriod, cycle.PeriodLength)
			info.addDetail(DetailExpectedIn, info.DaysUntil)
		} else {
			info.addDetail(DetailPeriodDay, dayOfPeriod, cycle.PeriodLength)
		}
	case PhaseOvulation:
		info.IsOvulation = true
		if info.IsPrediction {
			info.addDetail(DetailPredictedPeakFertility)
			info.addDetail(DetailExpectedIn, info.DaysUntil)
		} else {
			info.addDetail(DetailPeakFertility)
		}
	case PhaseFertile:
		info.IsFertile = true
		if info.IsPrediction {
			info.addDetail(DetailPredictedFertileDay)
		} else {
			info.addDetail(DetailFertileDay)
		}
		info.addDetail(DetailHighConception)
	case PhaseFollicular:
		if info.IsPrediction {
			info.addDetail(DetailPredictedFollicular)
		}
	case PhaseLuteal:
		if info.IsPrediction {
			info.addDetail(DetailPredictedLuteal)
		}
	}

	return info
}

func phaseForDay(day time.Time, cycle CycleInfo) Phase {
	switch {
	case betweenDaysInclusive(day, cycle.PeriodStart, cycle.PeriodEnd):
		return PhaseMenstrual
	case IsSameDay(day, cycle.OvulationDate):
		return PhaseOvulation
	case betweenDaysInclusive(day, cycle.FertileWindowStart, cycle.FertileWindowEnd):
		return PhaseFertile
	case day.After(cycle.PeriodEnd) && day.Before(cycle.FertileWindowStart):
		return PhaseFollicular
	case day.After(cycle.OvulationDate) && day.Before(cycle.NextPeriodStart):
		return PhaseLuteal
	default:
		return PhaseNone
	}
}

type CalendarDayState struct {
	DayInfo
	DateString string `json:"date_string"`
	Day        int    `json:"day"`
	InMonth    bool   `json:"in_month"`
	IsToday    bool   `json:"is_today"`
	HasData    bool   `json:"has_data"`
}

// BuildCalendarMonth lays out a Sunday-first grid covering the month of monthStart.
func BuildCalendarMonth(monthStart time.Time, chain *CycleChain, logs []models.DailyLog, now time.Time) []CalendarDayState {
	firstDay := time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := firstDay.AddDate(0, 1, -1)
	gridStart := firstDay.AddDate(0, 0, -int(firstDay.Weekday()))
	gridEnd := monthEnd.AddDate(0, 0, 6-int(monthEnd.Weekday()))

	hasDataMap := make(map[string]bool, len(logs))
	for _, logEntry := range logs {
		key := FormatDay(NormalizeDate(logEntry.Date))
		hasDataMap[key] = hasDataMap[key] || DayHasData(logEntry)
	}

	todayKey := FormatDay(NormalizeDate(now))
	days := make([]CalendarDayState, 0, 42)
	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
		key := FormatDay(day)
		days = append(days, CalendarDayState{
			DayInfo:    ClassifyDate(day, chain, now),
			DateString: key,
			Day:        day.Day(),
			InMonth:    day.Month() == firstDay.Month(),
			IsToday:    key == todayKey,
			HasData:    hasDataMap[key],
		})
	}
	return days
}

func DayHasData(entry models.DailyLog) bool {
	if entry.HasFlow() {
		return true
	}
	if len(entry.Symptoms) > 0 || entry.Mood != nil || entry.PainLevel != nil {
		return true
	}
	return strings.TrimSpace(entry.Notes) != ""
}
