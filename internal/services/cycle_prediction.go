package services

import (
	"time"

	"github.com/terraincognita07/cycletrack/internal/models"
)

const (
	LutealPhaseDays            = 14
	fertileDaysBeforeOvulation = 5
	fertileDaysAfterOvulation  = 1
	maxPredictionCorrections   = 10
)

// CycleInfo is one cycle projected from a period start.
type CycleInfo struct {
	PeriodStart        time.Time `json:"period_start"`
	PeriodEnd          time.Time `json:"period_end"`
	OvulationDate      time.Time `json:"ovulation_date"`
	FertileWindowStart time.Time `json:"fertile_window_start"`
	FertileWindowEnd   time.Time `json:"fertile_window_end"`
	NextPeriodStart    time.Time `json:"next_period_start"`
	CycleLength        int       `json:"cycle_length"`
	PeriodLength       int       `json:"period_length"`
	Predicted          bool      `json:"predicted"`
}

// BuildCycleInfo derives a cycle from its period start. Ovulation is always placed
// LutealPhaseDays before the next period start.
func BuildCycleInfo(periodStart time.Time, cycleLength int, periodLength int) CycleInfo {
	if cycleLength <= 0 {
		cycleLength = models.DefaultCycleLength
	}
	if periodLength <= 0 {
		periodLength = models.DefaultPeriodLength
	}

	start := NormalizeDate(periodStart)
	nextPeriodStart := AddDays(start, cycleLength)
	return newCycleInfo(start, AddDays(start, periodLength-1), nextPeriodStart, periodLength)
}

func newCycleInfo(periodStart time.Time, periodEnd time.Time, nextPeriodStart time.Time, periodLength int) CycleInfo {
	ovulation := AddDays(nextPeriodStart, -LutealPhaseDays)
	return CycleInfo{
		PeriodStart:        periodStart,
		PeriodEnd:          periodEnd,
		OvulationDate:      ovulation,
		FertileWindowStart: AddDays(ovulation, -fertileDaysBeforeOvulation),
		FertileWindowEnd:   AddDays(ovulation, fertileDaysAfterOvulation),
		NextPeriodStart:    nextPeriodStart,
		CycleLength:        DaysBetween(periodStart, nextPeriodStart),
		PeriodLength:       periodLength,
	}
}

// Next projects the cycle that follows info using its own lengths.
func (info CycleInfo) Next(cycleLength int, periodLength int) CycleInfo {
	next := BuildCycleInfo(info.NextPeriodStart, cycleLength, periodLength)
	next.Predicted = true
	return next
}

func (info CycleInfo) Contains(day time.Time) bool {
	return !day.Before(info.PeriodStart) && day.Before(info.NextPeriodStart)
}

// Prediction describes the upcoming cycle relative to "now".
type Prediction struct {
	NextPeriodStart    time.Time `json:"next_period"`
	OvulationDate      time.Time `json:"ovulation"`
	FertileWindowStart time.Time `json:"fertile_start"`
	FertileWindowEnd   time.Time `json:"fertile_end"`
	CyclesPassed       int       `json:"cycles_passed"`
}

// PredictNextCycle returns the first predicted period strictly after today together with
// its ovulation day and fertile window. It reports false when there is no history.
func PredictNextCycle(lastPeriodStart time.Time, cycleLength int, now time.Time) (Prediction, bool) {
	if lastPeriodStart.IsZero() {
		return Prediction{}, false
	}
	if cycleLength <= 0 {
		cycleLength = models.DefaultCycleLength
	}

	lastStart := NormalizeDate(lastPeriodStart)
	today := NormalizeDate(now)

	// Negative when lastStart is still ahead, which predicts lastStart itself.
	cyclesPassed := floorDiv(DaysBetween(lastStart, today), cycleLength)

	nextPeriodStart := AddDays(lastStart, (cyclesPassed+1)*cycleLength)
	for correction := 0; !nextPeriodStart.After(today) && correction < maxPredictionCorrections; correction++ {
		nextPeriodStart = AddDays(nextPeriodStart, cycleLength)
		cyclesPassed++
	}

	ovulation := AddDays(nextPeriodStart, -LutealPhaseDays)
	return Prediction{
		NextPeriodStart:    nextPeriodStart,
		OvulationDate:      ovulation,
		FertileWindowStart: AddDays(ovulation, -fertileDaysBeforeOvulation),
		FertileWindowEnd:   AddDays(ovulation, fertileDaysAfterOvulation),
		CyclesPassed:       cyclesPassed,
	}, true
}

func floorDiv(value int, divisor int) int {
	quotient := value / divisor
	if (value%divisor != 0) && ((value < 0) != (divisor < 0)) {
		quotient--
	}
	return quotient
}
