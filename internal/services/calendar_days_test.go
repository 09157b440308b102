package services

import (
	"testing"
	"time"

	"github.com/terraincognita07/cycletrack/internal/models"
)

func TestClassifyDateAcrossProjectedCycle(t *testing.T) {
	t.Parallel()

	chain := NewProjectedChain(mustParseDay(t, "2025-02-27"), 28, 5)
	now := mustParseDay(t, "2025-03-01")

	tests := []struct {
		day        string
		phase      Phase
		cycleDay   int
		prediction bool
		details    []string
	}{
		{day: "2025-02-27", phase: PhaseMenstrual, cycleDay: 1, details: []string{"Period day 1 of 5"}},
		{day: "2025-03-03", phase: PhaseMenstrual, cycleDay: 5, prediction: true, details: []string{"Predicted period day 5 of 5", "Expected in 2 days"}},
		{day: "2025-03-05", phase: PhaseFollicular, cycleDay: 7, prediction: true, details: []string{"Predicted follicular phase"}},
		{day: "2025-03-10", phase: PhaseFertile, cycleDay: 12, prediction: true, details: []string{"Predicted fertile day", "High chance of conception"}},
		{day: "2025-03-13", phase: PhaseOvulation, cycleDay: 15, prediction: true, details: []string{"Predicted peak fertility day", "Expected in 12 days"}},
		{day: "2025-03-14", phase: PhaseFertile, cycleDay: 16, prediction: true, details: []string{"Predicted fertile day", "High chance of conception"}},
		{day: "2025-03-20", phase: PhaseLuteal, cycleDay: 22, prediction: true, details: []string{"Predicted luteal phase"}},
		{day: "2025-03-27", phase: PhaseMenstrual, cycleDay: 1, prediction: true, details: []string{"Predicted period day 1 of 5", "Expected in 26 days"}},
	}

	for _, tt := range tests {
		info := ClassifyDate(mustParseDay(t, tt.day), chain, now)
		if info.Phase != tt.phase {
			t.Fatalf("%s: expected phase %q, got %q", tt.day, tt.phase, info.Phase)
		}
		if info.CycleDay != tt.cycleDay {
			t.Fatalf("%s: expected cycle day %d, got %d", tt.day, tt.cycleDay, info.CycleDay)
		}
		if info.IsPrediction != tt.prediction {
			t.Fatalf("%s: expected prediction=%t", tt.day, tt.prediction)
		}
		texts := info.DetailTexts()
		if len(texts) != len(tt.details) {
			t.Fatalf("%s: expected details %v, got %v", tt.day, tt.details, texts)
		}
		for index := range texts {
			if texts[index] != tt.details[index] {
				t.Fatalf("%s: expected details %v, got %v", tt.day, tt.details, texts)
			}
		}
	}
}

func TestClassifyDateFlagsMatchPhase(t *testing.T) {
	t.Parallel()

	chain := NewProjectedChain(mustParseDay(t, "2025-02-27"), 28, 5)
	now := mustParseDay(t, "2025-03-01")

	ovulation := ClassifyDate(mustParseDay(t, "2025-03-13"), chain, now)
	if !ovulation.IsOvulation || ovulation.IsFertile || ovulation.IsPeriod {
		t.Fatalf("ovulation day must only set IsOvulation, got %+v", ovulation)
	}
	fertile := ClassifyDate(mustParseDay(t, "2025-03-08"), chain, now)
	if !fertile.IsFertile || fertile.IsOvulation || fertile.IsPeriod {
		t.Fatalf("fertile day must only set IsFertile, got %+v", fertile)
	}
	period := ClassifyDate(mustParseDay(t, "2025-02-28"), chain, now)
	if !period.IsPeriod || period.IsFertile || period.IsOvulation || period.IsPrediction {
		t.Fatalf("past period day must only set IsPeriod, got %+v", period)
	}
}

func TestClassifyDateCoversEveryDayWithMonotonicCycleDay(t *testing.T) {
	t.Parallel()

	for _, lengths := range [][2]int{{21, 7}, {28, 5}, {35, 4}, {45, 10}} {
		chain := NewProjectedChain(mustParseDay(t, "2025-01-01"), lengths[0], lengths[1])
		now := mustParseDay(t, "2025-01-10")

		previous := 0
		for offset := 0; offset < 200; offset++ {
			day := AddDays(mustParseDay(t, "2025-01-01"), offset)
			info := ClassifyDate(day, chain, now)
			if info.Phase == PhaseNone {
				t.Fatalf("cycle %v: %s has no phase", lengths, FormatDay(day))
			}
			if info.CycleDay != previous+1 && info.CycleDay != 1 {
				t.Fatalf("cycle %v: cycle day jumped from %d to %d on %s", lengths, previous, info.CycleDay, FormatDay(day))
			}
			if info.CycleDay > lengths[0] {
				t.Fatalf("cycle %v: cycle day %d exceeds cycle length", lengths, info.CycleDay)
			}
			previous = info.CycleDay
		}
	}
}

func TestClassifyDateBeforeFirstPeriod(t *testing.T) {
	t.Parallel()

	chain := NewProjectedChain(mustParseDay(t, "2025-02-27"), 28, 5)
	info := ClassifyDate(mustParseDay(t, "2025-02-26"), chain, mustParseDay(t, "2025-03-01"))
	if info.Phase != PhaseNone || info.CycleDay != 0 || len(info.Details) != 0 {
		t.Fatalf("expected an unclassified day, got %+v", info)
	}

	empty := ClassifyDate(mustParseDay(t, "2025-02-26"), nil, mustParseDay(t, "2025-03-01"))
	if empty.Phase != PhaseNone {
		t.Fatalf("expected no phase without history, got %q", empty.Phase)
	}
}

func TestClassifyDateFarFuture(t *testing.T) {
	t.Parallel()

	chain := NewProjectedChain(mustParseDay(t, "2025-02-27"), 28, 5)
	day := mustParseDay(t, "2035-06-15")
	info := ClassifyDate(day, chain, mustParseDay(t, "2025-03-01"))

	if info.CycleDay < 1 || info.CycleDay > 28 {
		t.Fatalf("expected cycle day within 1..28, got %d", info.CycleDay)
	}
	wantCycleDay := DaysBetween(mustParseDay(t, "2025-02-27"), day)%28 + 1
	if info.CycleDay != wantCycleDay {
		t.Fatalf("expected cycle day %d, got %d", wantCycleDay, info.CycleDay)
	}
}

func TestClassifyDateUsesRecordedCycles(t *testing.T) {
	t.Parallel()

	periods := []models.Period{
		{StartDate: mustParseDay(t, "2025-01-01"), EndDate: dayPtr(t, "2025-01-05")},
		{StartDate: mustParseDay(t, "2025-01-31"), EndDate: dayPtr(t, "2025-02-03")},
	}
	now := mustParseDay(t, "2025-02-10")
	chain := NewCycleChain(periods, 28, 5, now)

	ovulation := ClassifyDate(mustParseDay(t, "2025-01-17"), chain, now)
	if ovulation.Phase != PhaseOvulation || ovulation.IsPrediction {
		t.Fatalf("expected recorded ovulation on 2025-01-17, got %q prediction=%t", ovulation.Phase, ovulation.IsPrediction)
	}
	if ovulation.DetailTexts()[0] != "Peak fertility day" {
		t.Fatalf("unexpected details %v", ovulation.DetailTexts())
	}

	lastDayOfCycle := ClassifyDate(mustParseDay(t, "2025-01-30"), chain, now)
	if lastDayOfCycle.CycleDay != 30 || lastDayOfCycle.Phase != PhaseLuteal {
		t.Fatalf("expected luteal cycle day 30, got %q day %d", lastDayOfCycle.Phase, lastDayOfCycle.CycleDay)
	}

	recordedPeriod := ClassifyDate(mustParseDay(t, "2025-02-03"), chain, now)
	if !recordedPeriod.IsPeriod || recordedPeriod.DetailTexts()[0] != "Period day 4 of 4" {
		t.Fatalf("expected recorded period day 4 of 4, got %v", recordedPeriod.DetailTexts())
	}
	afterPeriod := ClassifyDate(mustParseDay(t, "2025-02-04"), chain, now)
	if afterPeriod.IsPeriod {
		t.Fatalf("expected the recorded end date to close the period")
	}
}

func TestClassifyDateExtendsActivePeriodToToday(t *testing.T) {
	t.Parallel()

	periods := []models.Period{{StartDate: mustParseDay(t, "2025-02-01")}}
	now := mustParseDay(t, "2025-02-08")
	chain := NewCycleChain(periods, 28, 5, now)

	today := ClassifyDate(now, chain, now)
	if today.Phase != PhaseMenstrual || today.CycleDay != 8 {
		t.Fatalf("expected ongoing period on cycle day 8, got %q day %d", today.Phase, today.CycleDay)
	}
	tomorrow := ClassifyDate(AddDays(now, 1), chain, now)
	if tomorrow.IsPeriod {
		t.Fatalf("expected period extension to stop at today")
	}
}

func TestBuildCalendarMonthGrid(t *testing.T) {
	t.Parallel()

	chain := NewProjectedChain(mustParseDay(t, "2025-02-27"), 28, 5)
	now := mustParseDay(t, "2025-03-01")
	mood := models.MoodHappy
	logs := []models.DailyLog{
		{Date: mustParseDay(t, "2025-03-05"), Flow: models.FlowNone, Notes: "tired"},
		{Date: mustParseDay(t, "2025-03-06"), Flow: models.FlowNone},
		{Date: mustParseDay(t, "2025-03-07"), Flow: models.FlowNone, Mood: &mood},
	}

	days := BuildCalendarMonth(mustParseDay(t, "2025-03-15"), chain, logs, now)
	if len(days) != 42 {
		t.Fatalf("expected 42 grid days for March 2025, got %d", len(days))
	}
	if days[0].DateString != "2025-02-23" || days[0].InMonth {
		t.Fatalf("expected grid to start on Sunday 2025-02-23 outside the month, got %s", days[0].DateString)
	}
	if days[len(days)-1].DateString != "2025-04-05" {
		t.Fatalf("expected grid to end on Saturday 2025-04-05, got %s", days[len(days)-1].DateString)
	}

	byDate := make(map[string]CalendarDayState, len(days))
	for _, day := range days {
		byDate[day.DateString] = day
	}
	if !byDate["2025-03-01"].IsToday || !byDate["2025-03-01"].IsPeriod {
		t.Fatalf("expected today to be a period day")
	}
	if !byDate["2025-03-05"].HasData || byDate["2025-03-06"].HasData || !byDate["2025-03-07"].HasData {
		t.Fatalf("unexpected has-data markers")
	}
	if byDate["2025-02-23"].Phase != PhaseNone {
		t.Fatalf("expected days before the first period to stay unclassified")
	}
}

func TestBuildCalendarMonthStartingOnSunday(t *testing.T) {
	t.Parallel()

	days := BuildCalendarMonth(time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), nil, nil, mustParseDay(t, "2026-02-10"))
	if len(days) != 28 {
		t.Fatalf("expected exactly four weeks for February 2026, got %d", len(days))
	}
	for _, day := range days {
		if !day.InMonth {
			t.Fatalf("expected every day in month, got %s", day.DateString)
		}
	}
}
