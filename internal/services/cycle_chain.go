package services

import (
	"sort"
	"time"

	"github.com/terraincognita07/cycletrack/internal/models"
)

// CycleChain is the ordered list of recorded cycles (one per logged period) followed by
// an unbounded sequence of projected cycles.
type CycleChain struct {
	cycles       []CycleInfo
	cycleLength  int
	periodLength int
}

// NewCycleChain materializes one cycle per recorded period. The cycle of a recorded period
// ends at the next recorded start; the latest one is projected with cycleLength.
func NewCycleChain(periods []models.Period, cycleLength int, periodLength int, now time.Time) *CycleChain {
	if cycleLength <= 0 {
		cycleLength = models.DefaultCycleLength
	}
	if periodLength <= 0 {
		periodLength = models.DefaultPeriodLength
	}

	chain := &CycleChain{cycleLength: cycleLength, periodLength: periodLength}
	starts := uniquePeriodsAscending(periods)
	today := NormalizeDate(now)

	for index, period := range starts {
		start := NormalizeDate(period.StartDate)
		nextStart := AddDays(start, cycleLength)
		if index+1 < len(starts) {
			nextStart = NormalizeDate(starts[index+1].StartDate)
		}

		end := AddDays(start, periodLength-1)
		switch {
		case period.EndDate != nil:
			end = NormalizeDate(*period.EndDate)
		case today.After(end) && today.Before(nextStart):
			// Still bleeding past the usual length.
			end = today
		}
		if end.Before(start) {
			end = start
		}
		if !end.Before(nextStart) {
			end = AddDays(nextStart, -1)
		}

		chain.cycles = append(chain.cycles, newCycleInfo(start, end, nextStart, DaysBetween(start, end)+1))
	}

	return chain
}

// NewProjectedChain builds a chain anchored on a single period start, as used for
// "what if" settings previews and for users without a stored history.
func NewProjectedChain(periodStart time.Time, cycleLength int, periodLength int) *CycleChain {
	chain := &CycleChain{cycleLength: cycleLength, periodLength: periodLength}
	if chain.cycleLength <= 0 {
		chain.cycleLength = models.DefaultCycleLength
	}
	if chain.periodLength <= 0 {
		chain.periodLength = models.DefaultPeriodLength
	}
	if !periodStart.IsZero() {
		chain.cycles = append(chain.cycles, BuildCycleInfo(periodStart, chain.cycleLength, chain.periodLength))
	}
	return chain
}

func (chain *CycleChain) Empty() bool {
	return chain == nil || len(chain.cycles) == 0
}

func (chain *CycleChain) CycleLength() int {
	return chain.cycleLength
}

func (chain *CycleChain) PeriodLength() int {
	return chain.periodLength
}

// Recorded returns the materialized cycles, oldest first.
func (chain *CycleChain) Recorded() []CycleInfo {
	if chain == nil {
		return nil
	}
	result := make([]CycleInfo, len(chain.cycles))
	copy(result, chain.cycles)
	return result
}

// Latest is the cycle of the most recent recorded period.
func (chain *CycleChain) Latest() (CycleInfo, bool) {
	if chain.Empty() {
		return CycleInfo{}, false
	}
	return chain.cycles[len(chain.cycles)-1], true
}

// CycleFor finds the cycle whose [PeriodStart, NextPeriodStart) contains day, projecting
// past the recorded cycles as far as needed. Days before the first recorded period have
// no cycle.
func (chain *CycleChain) CycleFor(day time.Time) (CycleInfo, bool) {
	if chain.Empty() {
		return CycleInfo{}, false
	}
	target := NormalizeDate(day)
	if target.Before(chain.cycles[0].PeriodStart) {
		return CycleInfo{}, false
	}

	index := sort.Search(len(chain.cycles), func(i int) bool {
		return chain.cycles[i].NextPeriodStart.After(target)
	})
	if index < len(chain.cycles) {
		return chain.cycles[index], true
	}

	current := chain.cycles[len(chain.cycles)-1].Next(chain.cycleLength, chain.periodLength)
	if skipped := floorDiv(DaysBetween(current.PeriodStart, target), chain.cycleLength) - 1; skipped > 0 {
		current = BuildCycleInfo(AddDays(current.PeriodStart, skipped*chain.cycleLength), chain.cycleLength, chain.periodLength)
		current.Predicted = true
	}
	for !current.Contains(target) {
		current = current.Next(chain.cycleLength, chain.periodLength)
	}
	return current, true
}

func uniquePeriodsAscending(periods []models.Period) []models.Period {
	sorted := make([]models.Period, 0, len(periods))
	for _, period := range periods {
		if !period.StartDate.IsZero() {
			sorted = append(sorted, period)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})

	unique := sorted[:0]
	for _, period := range sorted {
		if len(unique) > 0 && IsSameDay(unique[len(unique)-1].StartDate, period.StartDate) {
			unique[len(unique)-1] = period
			continue
		}
		unique = append(unique, period)
	}
	return unique
}
