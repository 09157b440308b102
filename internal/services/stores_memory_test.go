package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/terraincognita07/cycletrack/internal/apperr"
	"github.com/terraincognita07/cycletrack/internal/models"
)

// memoryStore implements every store contract in memory. Setting one of the error fields
// makes the matching calls fail with it.
type memoryStore struct {
	periods  map[string]models.Period
	settings map[string]models.UserSettings
	logs     map[string]models.DailyLog

	readErr         error
	writeErr        error
	settingsReadErr error
	settingsSaveErr error
	updateErr       error

	settingsWrites int
	nextLogID      uint
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		periods:  map[string]models.Period{},
		settings: map[string]models.UserSettings{},
		logs:     map[string]models.DailyLog{},
	}
}

func (store *memoryStore) addPeriod(id string, userID string, start time.Time, end *time.Time) models.Period {
	period := models.Period{ID: id, UserID: userID, StartDate: start, EndDate: end, Flow: models.FlowMedium}
	store.periods[id] = period
	return period
}

func (store *memoryStore) ListPeriods(_ context.Context, userID string) ([]models.Period, error) {
	if store.readErr != nil {
		return nil, store.readErr
	}
	result := make([]models.Period, 0, len(store.periods))
	for _, period := range store.periods {
		if period.UserID == userID {
			result = append(result, period)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartDate.After(result[j].StartDate)
	})
	return result, nil
}

func (store *memoryStore) GetActivePeriod(ctx context.Context, userID string) (models.Period, bool, error) {
	periods, err := store.ListPeriods(ctx, userID)
	if err != nil {
		return models.Period{}, false, err
	}
	for _, period := range periods {
		if period.IsActive() {
			return period, true, nil
		}
	}
	return models.Period{}, false, nil
}

func (store *memoryStore) GetLastPeriod(ctx context.Context, userID string) (models.Period, bool, error) {
	periods, err := store.ListPeriods(ctx, userID)
	if err != nil || len(periods) == 0 {
		return models.Period{}, false, err
	}
	return periods[0], true, nil
}

func (store *memoryStore) GetPeriod(_ context.Context, periodID string) (models.Period, bool, error) {
	if store.readErr != nil {
		return models.Period{}, false, store.readErr
	}
	period, ok := store.periods[periodID]
	return period, ok, nil
}

func (store *memoryStore) InsertPeriod(_ context.Context, period *models.Period) error {
	if store.writeErr != nil {
		return store.writeErr
	}
	if period.EndDate == nil {
		for _, existing := range store.periods {
			if existing.UserID == period.UserID && existing.IsActive() {
				return fmt.Errorf("%w: second active period", apperr.ErrStoreWrite)
			}
		}
	}
	store.periods[period.ID] = *period
	return nil
}

func (store *memoryStore) UpdatePeriod(_ context.Context, periodID string, update models.PeriodUpdate) (models.Period, error) {
	if store.updateErr != nil {
		return models.Period{}, store.updateErr
	}
	period, ok := store.periods[periodID]
	if !ok {
		return models.Period{}, apperr.ErrNotFound
	}
	if update.EndDate != nil {
		end := *update.EndDate
		period.EndDate = &end
	}
	if update.ClearEndDate {
		period.EndDate = nil
	}
	if update.PainLevel != nil {
		period.PainLevel = update.PainLevel
	}
	if update.Mood != nil {
		period.Mood = update.Mood
	}
	if update.Symptoms != nil {
		period.Symptoms = update.Symptoms
	}
	if update.Notes != nil {
		period.Notes = *update.Notes
	}
	store.periods[periodID] = period
	return period, nil
}

// ReplaceActivePeriod applies both writes or neither.
func (store *memoryStore) ReplaceActivePeriod(_ context.Context, activeID string, endDate time.Time, period *models.Period) (models.Period, error) {
	if store.updateErr != nil {
		return models.Period{}, errors.Join(apperr.ErrInvalidState, store.updateErr)
	}
	if store.writeErr != nil {
		return models.Period{}, store.writeErr
	}
	closed, ok := store.periods[activeID]
	if !ok {
		return models.Period{}, errors.Join(apperr.ErrInvalidState, apperr.ErrNotFound)
	}
	end := endDate
	closed.EndDate = &end
	store.periods[activeID] = closed
	store.periods[period.ID] = *period
	return closed, nil
}

func (store *memoryStore) GetUserSettings(_ context.Context, userID string) (models.UserSettings, bool, error) {
	if store.settingsReadErr != nil {
		return models.UserSettings{}, false, store.settingsReadErr
	}
	settings, ok := store.settings[userID]
	return settings, ok, nil
}

func (store *memoryStore) UpsertUserSettings(_ context.Context, settings *models.UserSettings) error {
	if store.settingsSaveErr != nil {
		return store.settingsSaveErr
	}
	store.settingsWrites++
	store.settings[settings.UserID] = *settings
	return nil
}

func logKey(userID string, day time.Time) string {
	return userID + "|" + FormatDay(day)
}

func (store *memoryStore) GetDailyLog(_ context.Context, userID string, day time.Time) (models.DailyLog, bool, error) {
	if store.readErr != nil {
		return models.DailyLog{}, false, store.readErr
	}
	entry, ok := store.logs[logKey(userID, NormalizeDate(day))]
	return entry, ok, nil
}

func (store *memoryStore) UpsertDailyLog(_ context.Context, entry *models.DailyLog) error {
	if store.writeErr != nil {
		return store.writeErr
	}
	if entry.ID == 0 {
		store.nextLogID++
		entry.ID = store.nextLogID
	}
	store.logs[logKey(entry.UserID, NormalizeDate(entry.Date))] = *entry
	return nil
}

func (store *memoryStore) ListDailyLogs(_ context.Context, userID string, from *time.Time, to *time.Time) ([]models.DailyLog, error) {
	if store.readErr != nil {
		return nil, store.readErr
	}
	result := make([]models.DailyLog, 0, len(store.logs))
	for _, entry := range store.logs {
		if entry.UserID != userID {
			continue
		}
		if from != nil && entry.Date.Before(*from) {
			continue
		}
		if to != nil && entry.Date.After(*to) {
			continue
		}
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

func sequentialIDs() func() string {
	next := 0
	return func() string {
		next++
		return "period-" + strconv.Itoa(next)
	}
}

func newTestServices(store *memoryStore) (*CycleService, *PeriodService) {
	cycles := NewCycleService(store, store, nil, nil)
	periods := NewPeriodService(store, cycles, nil, nil)
	periods.newID = sequentialIDs()
	return cycles, periods
}
