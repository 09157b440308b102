package services

import (
	"math"
	"sort"

	"github.com/terraincognita07/cycletrack/internal/models"
)

const (
	MinCycleSampleDays  = 21
	MaxCycleSampleDays  = 45
	MinPeriodSampleDays = 2
	MaxPeriodSampleDays = 10
)

type AverageSource string

const (
	AverageSourceEstimated AverageSource = "estimated"
	AverageSourceFallback  AverageSource = "fallback"
	AverageSourceOverride  AverageSource = "override"
)

// CycleAverages is the result of one estimator run.
type CycleAverages struct {
	CycleLength       int           `json:"cycle_length"`
	PeriodLength      int           `json:"period_length"`
	CycleSource       AverageSource `json:"cycle_source"`
	PeriodSource      AverageSource `json:"period_source"`
	CycleSampleCount  int           `json:"cycle_sample_count"`
	PeriodSampleCount int           `json:"period_sample_count"`
}

// EstimateAverages derives cycle and period length from completed periods.
// Samples outside the plausible ranges are discarded; with no usable sample the stored
// settings (or the defaults, when settings is nil) are returned unchanged.
func EstimateAverages(periods []models.Period, settings *models.UserSettings) CycleAverages {
	fallbackCycle, fallbackPeriod := fallbackLengths(settings)

	completed := completedPeriodsAscending(periods)

	averages := CycleAverages{
		CycleLength:  fallbackCycle,
		PeriodLength: fallbackPeriod,
		CycleSource:  AverageSourceFallback,
		PeriodSource: AverageSourceFallback,
	}

	if len(completed) >= 2 {
		samples := make([]int, 0, len(completed)-1)
		for index := 1; index < len(completed); index++ {
			length := DaysBetween(completed[index-1].StartDate, completed[index].StartDate)
			if length < MinCycleSampleDays || length > MaxCycleSampleDays {
				continue
			}
			samples = append(samples, length)
		}
		if len(samples) > 0 {
			averages.CycleLength = roundedMean(samples)
			averages.CycleSource = AverageSourceEstimated
			averages.CycleSampleCount = len(samples)
		}
	}

	periodSamples := make([]int, 0, len(completed))
	for _, period := range completed {
		length := DaysBetween(period.StartDate, *period.EndDate) + 1
		if length < MinPeriodSampleDays || length > MaxPeriodSampleDays {
			continue
		}
		periodSamples = append(periodSamples, length)
	}
	if len(periodSamples) > 0 {
		averages.PeriodLength = roundedMean(periodSamples)
		averages.PeriodSource = AverageSourceEstimated
		averages.PeriodSampleCount = len(periodSamples)
	}

	return averages
}

func fallbackLengths(settings *models.UserSettings) (int, int) {
	cycleLength := models.DefaultCycleLength
	periodLength := models.DefaultPeriodLength
	if settings == nil {
		return cycleLength, periodLength
	}
	if settings.CycleLength > 0 {
		cycleLength = settings.CycleLength
	}
	if settings.PeriodLength > 0 {
		periodLength = settings.PeriodLength
	}
	return cycleLength, periodLength
}

func completedPeriodsAscending(periods []models.Period) []models.Period {
	completed := make([]models.Period, 0, len(periods))
	for _, period := range periods {
		if period.IsCompleted() {
			completed = append(completed, period)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].StartDate.Before(completed[j].StartDate)
	})
	return completed
}

func roundedMean(values []int) int {
	if len(values) == 0 {
		return 0
	}
	total := 0
	for _, value := range values {
		total += value
	}
	return int(math.Round(float64(total) / float64(len(values))))
}
