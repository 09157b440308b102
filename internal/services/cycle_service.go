package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/terraincognita07/cycletrack/internal/apperr"
	"github.com/terraincognita07/cycletrack/internal/metrics"
	"github.com/terraincognita07/cycletrack/internal/models"
)

const longCycleGraceDays = 7

type CurrentCycle struct {
	DayOfCycle int   `json:"day_of_cycle"`
	TotalDays  int   `json:"total_days"`
	IsOnPeriod bool  `json:"is_on_period"`
	Phase      Phase `json:"phase"`
	LooksLong  bool  `json:"looks_long"`
}

type FertileWindow struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

type Predictions struct {
	NextPeriod    *time.Time    `json:"next_period"`
	Ovulation     *time.Time    `json:"ovulation"`
	FertileWindow FertileWindow `json:"fertile_window"`
}

type Averages struct {
	CycleLength  int           `json:"cycle_length"`
	PeriodLength int           `json:"period_length"`
	Source       AverageSource `json:"source"`
}

// CycleSnapshot is the read model of a user's cycle as of one "now".
type CycleSnapshot struct {
	Periods      []models.Period `json:"periods"`
	ActivePeriod *models.Period  `json:"active_period"`
	CurrentCycle CurrentCycle    `json:"current_cycle"`
	Predictions  Predictions     `json:"predictions"`
	Averages     Averages        `json:"averages"`
}

// HistoryCycle is one closed cycle between two recorded period starts.
type HistoryCycle struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	CycleLength  int       `json:"cycle_length"`
	PeriodLength int       `json:"period_length"`
	InSample     bool      `json:"in_sample"`
}

type CycleService struct {
	periods  PeriodStore
	settings SettingsStore
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func NewCycleService(periods PeriodStore, settings SettingsStore, logger *zap.Logger, m *metrics.Metrics) *CycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CycleService{periods: periods, settings: settings, logger: logger, metrics: m}
}

// ResolveAverages runs the estimator over the given periods. A manual override in the
// stored settings wins. Estimated values are written back best-effort: a failed write is
// logged and does not fail the read.
func (service *CycleService) ResolveAverages(ctx context.Context, userID string, periods []models.Period) (Averages, error) {
	stored, found, err := service.settings.GetUserSettings(ctx, userID)
	if err != nil {
		return Averages{}, apperr.Wrap("load settings", userID, time.Time{}, err)
	}

	if found && stored.ManualOverride {
		service.metrics.RecordEstimation(string(AverageSourceOverride))
		return Averages{
			CycleLength:  stored.CycleLength,
			PeriodLength: stored.PeriodLength,
			Source:       AverageSourceOverride,
		}, nil
	}

	var settingsPtr *models.UserSettings
	if found {
		settingsPtr = &stored
	}
	estimate := EstimateAverages(periods, settingsPtr)

	source := AverageSourceFallback
	if estimate.CycleSource == AverageSourceEstimated || estimate.PeriodSource == AverageSourceEstimated {
		source = AverageSourceEstimated
	}
	service.metrics.RecordEstimation(string(source))

	if !found || stored.CycleLength != estimate.CycleLength || stored.PeriodLength != estimate.PeriodLength {
		next := models.DefaultUserSettings(userID)
		if found {
			next = stored
		}
		next.CycleLength = estimate.CycleLength
		next.PeriodLength = estimate.PeriodLength
		if persistErr := service.settings.UpsertUserSettings(ctx, &next); persistErr != nil {
			service.metrics.RecordPersistFailure()
			service.logger.Warn("persist estimated averages failed",
				zap.String("user_id", userID),
				zap.Int("cycle_length", estimate.CycleLength),
				zap.Int("period_length", estimate.PeriodLength),
				zap.Error(persistErr),
			)
		}
	}

	return Averages{
		CycleLength:  estimate.CycleLength,
		PeriodLength: estimate.PeriodLength,
		Source:       source,
	}, nil
}

// ClearManualOverride hands the averages back to the estimator after a period event.
func (service *CycleService) ClearManualOverride(ctx context.Context, userID string) {
	stored, found, err := service.settings.GetUserSettings(ctx, userID)
	if err != nil || !found || !stored.ManualOverride {
		return
	}
	stored.ManualOverride = false
	if err := service.settings.UpsertUserSettings(ctx, &stored); err != nil {
		service.logger.Warn("clear manual override failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (service *CycleService) GetCycleSnapshot(ctx context.Context, userID string, now time.Time) (CycleSnapshot, error) {
	started := time.Now()
	defer func() { service.metrics.ObserveSnapshot(time.Since(started)) }()

	periods, err := service.periods.ListPeriods(ctx, userID)
	if err != nil {
		return CycleSnapshot{}, apperr.Wrap("list periods", userID, time.Time{}, err)
	}
	averages, err := service.ResolveAverages(ctx, userID, periods)
	if err != nil {
		return CycleSnapshot{}, err
	}
	return BuildCycleSnapshot(periods, averages, now), nil
}

// BuildCycleSnapshot assembles the snapshot from periods ordered most recent first.
func BuildCycleSnapshot(periods []models.Period, averages Averages, now time.Time) CycleSnapshot {
	today := NormalizeDate(now)
	snapshot := CycleSnapshot{
		Periods:  periods,
		Averages: averages,
		CurrentCycle: CurrentCycle{
			DayOfCycle: 1,
			TotalDays:  averages.CycleLength,
		},
	}
	if snapshot.Periods == nil {
		snapshot.Periods = []models.Period{}
	}

	for index := range periods {
		if periods[index].IsActive() {
			active := periods[index]
			snapshot.ActivePeriod = &active
			snapshot.CurrentCycle.IsOnPeriod = true
			break
		}
	}

	if len(periods) == 0 {
		return snapshot
	}

	lastStart := NormalizeDate(periods[0].StartDate)
	if dayOfCycle := DaysBetween(lastStart, today) + 1; dayOfCycle > 0 {
		snapshot.CurrentCycle.DayOfCycle = dayOfCycle
	}
	snapshot.CurrentCycle.LooksLong = snapshot.CurrentCycle.DayOfCycle > averages.CycleLength+longCycleGraceDays

	chain := NewCycleChain(periods, averages.CycleLength, averages.PeriodLength, now)
	snapshot.CurrentCycle.Phase = ClassifyDate(today, chain, now).Phase

	if prediction, ok := PredictNextCycle(lastStart, averages.CycleLength, now); ok {
		snapshot.Predictions = Predictions{
			NextPeriod: timePtr(prediction.NextPeriodStart),
			Ovulation:  timePtr(prediction.OvulationDate),
			FertileWindow: FertileWindow{
				Start: timePtr(prediction.FertileWindowStart),
				End:   timePtr(prediction.FertileWindowEnd),
			},
		}
	}
	return snapshot
}

// CycleChain loads the user's periods and averages into a classifier chain.
func (service *CycleService) CycleChain(ctx context.Context, userID string, now time.Time) (*CycleChain, error) {
	periods, err := service.periods.ListPeriods(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap("list periods", userID, time.Time{}, err)
	}
	averages, err := service.ResolveAverages(ctx, userID, periods)
	if err != nil {
		return nil, err
	}
	return NewCycleChain(periods, averages.CycleLength, averages.PeriodLength, now), nil
}

func (service *CycleService) CycleHistory(ctx context.Context, userID string) ([]HistoryCycle, error) {
	periods, err := service.periods.ListPeriods(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap("list periods", userID, time.Time{}, err)
	}
	return BuildCycleHistory(periods), nil
}

// BuildCycleHistory lists closed cycles oldest first. PeriodLength is zero while the
// period of a cycle has no recorded end.
func BuildCycleHistory(periods []models.Period) []HistoryCycle {
	starts := uniquePeriodsAscending(periods)
	history := make([]HistoryCycle, 0, len(starts))
	for index := 0; index+1 < len(starts); index++ {
		start := NormalizeDate(starts[index].StartDate)
		nextStart := NormalizeDate(starts[index+1].StartDate)
		length := DaysBetween(start, nextStart)

		entry := HistoryCycle{
			Start:       start,
			End:         AddDays(nextStart, -1),
			CycleLength: length,
			InSample:    length >= MinCycleSampleDays && length <= MaxCycleSampleDays,
		}
		if starts[index].EndDate != nil {
			entry.PeriodLength = DaysBetween(start, *starts[index].EndDate) + 1
		}
		history = append(history, entry)
	}
	return history
}

func timePtr(value time.Time) *time.Time {
	return &value
}
