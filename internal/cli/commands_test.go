package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/cycletrack/internal/models"
	"github.com/terraincognita07/cycletrack/internal/services"
)

var commandNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(":memory:", nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func insertPeriod(t *testing.T, store *Store, id string, start time.Time, end *time.Time) {
	t.Helper()
	period := models.Period{ID: id, UserID: "user-1", StartDate: start, EndDate: end, Flow: models.FlowMedium}
	if err := store.Repositories.Periods.InsertPeriod(context.Background(), &period); err != nil {
		t.Fatalf("insert period: %v", err)
	}
}

func TestRunSnapshotCommand(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	insertPeriod(t, store, "p1", time.Date(2025, time.February, 27, 0, 0, 0, 0, time.UTC), nil)

	var out bytes.Buffer
	if err := RunSnapshotCommand(context.Background(), &out, store, nil, "user-1", commandNow); err != nil {
		t.Fatalf("RunSnapshotCommand returned error: %v", err)
	}

	snapshot := services.CycleSnapshot{}
	if err := json.Unmarshal(out.Bytes(), &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snapshot.ActivePeriod == nil || snapshot.ActivePeriod.ID != "p1" {
		t.Fatalf("expected active period p1, got %#v", snapshot.ActivePeriod)
	}
	if snapshot.CurrentCycle.DayOfCycle != 12 {
		t.Fatalf("expected day 12 of cycle, got %d", snapshot.CurrentCycle.DayOfCycle)
	}
}

func TestRunSnapshotCommandRequiresUser(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)

	if err := RunSnapshotCommand(context.Background(), &bytes.Buffer{}, store, nil, "  ", commandNow); err == nil {
		t.Fatal("expected error without user id")
	}
}

func TestRunCalendarCommand(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)
	end := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	insertPeriod(t, store, "p1", time.Date(2025, time.February, 27, 0, 0, 0, 0, time.UTC), &end)

	var out bytes.Buffer
	if err := RunCalendarCommand(context.Background(), &out, store, nil, "user-1", "2025-03", commandNow); err != nil {
		t.Fatalf("RunCalendarCommand returned error: %v", err)
	}

	payload := struct {
		Month string                      `json:"month"`
		Days  []services.CalendarDayState `json:"days"`
	}{}
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("decode calendar: %v", err)
	}
	if payload.Month != "2025-03" || len(payload.Days) != 42 {
		t.Fatalf("expected 42 days of 2025-03, got %s with %d days", payload.Month, len(payload.Days))
	}

	if err := RunCalendarCommand(context.Background(), &bytes.Buffer{}, store, nil, "user-1", "03/2025", commandNow); err == nil {
		t.Fatal("expected error for malformed month")
	}
}

func TestRunCalendarCommandDefaultsToCurrentMonth(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)

	var out bytes.Buffer
	if err := RunCalendarCommand(context.Background(), &out, store, nil, "user-1", "", commandNow); err != nil {
		t.Fatalf("RunCalendarCommand returned error: %v", err)
	}
	if !strings.Contains(out.String(), `"month": "2025-03"`) {
		t.Fatalf("expected current month in output, got %s", out.String())
	}
}

func TestRunMigrateCommand(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "data", "cycletrack.db")

	var preview bytes.Buffer
	if err := RunMigrateCommand(&preview, dbPath, nil, true); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if !strings.Contains(preview.String(), "Pending 001_init.sql") || !strings.Contains(preview.String(), "Pending 002_user_settings_manual_override.sql") {
		t.Fatalf("expected both migrations to be pending, got %q", preview.String())
	}

	var first bytes.Buffer
	if err := RunMigrateCommand(&first, dbPath, nil, false); err != nil {
		t.Fatalf("first migrate failed: %v", err)
	}
	if !strings.Contains(first.String(), "Applied 001_init.sql") || !strings.Contains(first.String(), "Applied 002_user_settings_manual_override.sql") {
		t.Fatalf("expected both migrations to be applied, got %q", first.String())
	}

	var second bytes.Buffer
	if err := RunMigrateCommand(&second, dbPath, nil, false); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
	if strings.TrimSpace(second.String()) != "Schema is up to date" {
		t.Fatalf("expected no pending migrations, got %q", second.String())
	}
}

func TestRunGenerateSecretCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := RunGenerateSecretCommand(&out, 48); err != nil {
		t.Fatalf("RunGenerateSecretCommand returned error: %v", err)
	}
	if secret := strings.TrimSpace(out.String()); len(secret) != 48 {
		t.Fatalf("expected 48-character secret, got %q", secret)
	}

	if err := RunGenerateSecretCommand(&bytes.Buffer{}, 16); err == nil {
		t.Fatal("expected error for short secret length")
	}
}
