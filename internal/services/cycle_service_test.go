package services

import (
	"context"
	"errors"
	"testing"

	"github.com/terraincognita07/cycletrack/internal/apperr"
	"github.com/terraincognita07/cycletrack/internal/models"
)

func TestGetCycleSnapshotWithoutHistory(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	cycles, _ := newTestServices(store)

	snapshot, err := cycles.GetCycleSnapshot(context.Background(), "user-1", mustParseDay(t, "2025-03-01"))
	if err != nil {
		t.Fatalf("GetCycleSnapshot() unexpected error: %v", err)
	}
	if len(snapshot.Periods) != 0 || snapshot.ActivePeriod != nil {
		t.Fatalf("expected empty history, got %+v", snapshot)
	}
	if snapshot.Predictions.NextPeriod != nil || snapshot.Predictions.Ovulation != nil {
		t.Fatalf("expected no predictions without history")
	}
	if snapshot.CurrentCycle.DayOfCycle != 1 || snapshot.CurrentCycle.TotalDays != 28 {
		t.Fatalf("expected day 1 of 28, got %+v", snapshot.CurrentCycle)
	}
	if snapshot.Averages.Source != AverageSourceFallback {
		t.Fatalf("expected fallback averages, got %q", snapshot.Averages.Source)
	}
}

func TestGetCycleSnapshotPredictsFromLastPeriod(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.addPeriod("p1", "user-1", mustParseDay(t, "2025-02-27"), dayPtr(t, "2025-03-03"))
	cycles, _ := newTestServices(store)

	snapshot, err := cycles.GetCycleSnapshot(context.Background(), "user-1", mustParseDay(t, "2025-03-10"))
	if err != nil {
		t.Fatalf("GetCycleSnapshot() unexpected error: %v", err)
	}
	if got := FormatDay(*snapshot.Predictions.NextPeriod); got != "2025-03-27" {
		t.Fatalf("expected next period 2025-03-27, got %s", got)
	}
	if got := FormatDay(*snapshot.Predictions.Ovulation); got != "2025-03-13" {
		t.Fatalf("expected ovulation 2025-03-13, got %s", got)
	}
	if FormatDay(*snapshot.Predictions.FertileWindow.Start) != "2025-03-08" || FormatDay(*snapshot.Predictions.FertileWindow.End) != "2025-03-14" {
		t.Fatalf("unexpected fertile window")
	}
	if snapshot.CurrentCycle.DayOfCycle != 12 || snapshot.CurrentCycle.Phase != PhaseFertile {
		t.Fatalf("expected fertile cycle day 12, got %+v", snapshot.CurrentCycle)
	}
	if snapshot.CurrentCycle.IsOnPeriod {
		t.Fatalf("expected no active period")
	}
}

func TestGetCycleSnapshotFlagsLongCycles(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.addPeriod("p1", "user-1", mustParseDay(t, "2025-01-01"), dayPtr(t, "2025-01-05"))
	cycles, _ := newTestServices(store)

	snapshot, err := cycles.GetCycleSnapshot(context.Background(), "user-1", mustParseDay(t, "2025-02-10"))
	if err != nil {
		t.Fatalf("GetCycleSnapshot() unexpected error: %v", err)
	}
	if snapshot.CurrentCycle.DayOfCycle != 41 || !snapshot.CurrentCycle.LooksLong {
		t.Fatalf("expected long cycle at day 41, got %+v", snapshot.CurrentCycle)
	}
	if !snapshot.Predictions.NextPeriod.After(mustParseDay(t, "2025-02-10")) {
		t.Fatalf("prediction must stay in the future")
	}
}

func TestResolveAveragesPersistsEstimate(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.addPeriod("p1", "user-1", mustParseDay(t, "2025-01-01"), dayPtr(t, "2025-01-04"))
	store.addPeriod("p2", "user-1", mustParseDay(t, "2025-01-31"), dayPtr(t, "2025-02-03"))
	cycles, _ := newTestServices(store)

	periods, _ := store.ListPeriods(context.Background(), "user-1")
	averages, err := cycles.ResolveAverages(context.Background(), "user-1", periods)
	if err != nil {
		t.Fatalf("ResolveAverages() unexpected error: %v", err)
	}
	if averages.CycleLength != 30 || averages.PeriodLength != 4 || averages.Source != AverageSourceEstimated {
		t.Fatalf("unexpected averages %+v", averages)
	}
	stored := store.settings["user-1"]
	if stored.CycleLength != 30 || stored.PeriodLength != 4 {
		t.Fatalf("expected estimate to be stored, got %+v", stored)
	}

	if _, err := cycles.ResolveAverages(context.Background(), "user-1", periods); err != nil {
		t.Fatalf("ResolveAverages() unexpected error: %v", err)
	}
	if store.settingsWrites != 1 {
		t.Fatalf("expected unchanged estimate not to be rewritten, got %d writes", store.settingsWrites)
	}
}

func TestResolveAveragesToleratesPersistFailure(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.settingsSaveErr = apperr.ErrStoreWrite
	store.addPeriod("p1", "user-1", mustParseDay(t, "2025-01-01"), dayPtr(t, "2025-01-04"))
	store.addPeriod("p2", "user-1", mustParseDay(t, "2025-01-31"), dayPtr(t, "2025-02-03"))
	cycles, _ := newTestServices(store)

	snapshot, err := cycles.GetCycleSnapshot(context.Background(), "user-1", mustParseDay(t, "2025-02-10"))
	if err != nil {
		t.Fatalf("expected persist failure to be swallowed, got %v", err)
	}
	if snapshot.Averages.CycleLength != 30 {
		t.Fatalf("expected estimated cycle length 30, got %d", snapshot.Averages.CycleLength)
	}
}

func TestResolveAveragesHonorsManualOverride(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.settings["user-1"] = models.UserSettings{UserID: "user-1", CycleLength: 33, PeriodLength: 6, ManualOverride: true}
	store.addPeriod("p1", "user-1", mustParseDay(t, "2025-01-01"), dayPtr(t, "2025-01-04"))
	store.addPeriod("p2", "user-1", mustParseDay(t, "2025-01-31"), dayPtr(t, "2025-02-03"))
	cycles, _ := newTestServices(store)

	periods, _ := store.ListPeriods(context.Background(), "user-1")
	averages, err := cycles.ResolveAverages(context.Background(), "user-1", periods)
	if err != nil {
		t.Fatalf("ResolveAverages() unexpected error: %v", err)
	}
	if averages.CycleLength != 33 || averages.PeriodLength != 6 || averages.Source != AverageSourceOverride {
		t.Fatalf("expected override 33/6, got %+v", averages)
	}
	if store.settingsWrites != 0 {
		t.Fatalf("expected override to suppress writes")
	}
}

func TestGetCycleSnapshotPropagatesStoreErrors(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.readErr = apperr.ErrStoreUnavailable
	cycles, _ := newTestServices(store)

	_, err := cycles.GetCycleSnapshot(context.Background(), "user-1", mustParseDay(t, "2025-03-01"))
	if !errors.Is(err, apperr.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	var opErr *apperr.OpError
	if !errors.As(err, &opErr) || opErr.UserID != "user-1" {
		t.Fatalf("expected an OpError naming the user, got %v", err)
	}
}

func TestBuildCycleHistory(t *testing.T) {
	t.Parallel()

	periods := []models.Period{
		{StartDate: mustParseDay(t, "2025-03-02")},
		{StartDate: mustParseDay(t, "2025-01-31"), EndDate: dayPtr(t, "2025-02-03")},
		{StartDate: mustParseDay(t, "2025-01-01"), EndDate: dayPtr(t, "2025-01-05")},
	}

	history := BuildCycleHistory(periods)
	if len(history) != 2 {
		t.Fatalf("expected two closed cycles, got %d", len(history))
	}
	if history[0].CycleLength != 30 || history[0].PeriodLength != 5 || FormatDay(history[0].End) != "2025-01-30" {
		t.Fatalf("unexpected first cycle %+v", history[0])
	}
	if history[1].CycleLength != 30 || history[1].PeriodLength != 4 || !history[1].InSample {
		t.Fatalf("unexpected second cycle %+v", history[1])
	}
}
