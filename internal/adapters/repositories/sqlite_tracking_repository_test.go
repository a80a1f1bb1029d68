package repositories

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"sealed-pack-tracking-service/internal/domain"
)

const seedJSON = `[
  {
    "task_id": "task-1",
    "sealed_pack_code": "SPC-2026-001",
    "source_location": "District Office",
    "destination_location": "Exam Center 12",
    "pickup": {"lat": 25.6747, "lon": 94.1086},
    "destination": {"lat": 25.69, "lon": 94.12},
    "geofence_radius_m": 100,
    "assigned_user_id": "agent-7",
    "scheduled_start": "2026-03-02T10:00:00Z",
    "scheduled_end": "2026-03-02T12:00:00Z",
    "exam_type": "REGULAR"
  },
  {
    "task_id": "task-2",
    "sealed_pack_code": "SPC-2026-002",
    "assigned_user_id": "agent-8",
    "scheduled_start": "2026-03-02T09:00:00Z",
    "scheduled_end": "2026-03-02T11:00:00Z"
  }
]`

func newSeededDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	dir := t.TempDir()
	db, err := sql.Open("sqlite", filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSqliteSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	seedPath := filepath.Join(dir, "tasks.json")
	if err := os.WriteFile(seedPath, []byte(seedJSON), 0o600); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	if err := SeedSqliteFromJSON(db, seedPath); err != nil {
		t.Fatalf("seed: %v", err)
	}

	return db, seedPath
}

func newTestRepo(t *testing.T) *SqliteTrackingRepository {
	t.Helper()

	db, _ := newSeededDB(t)
	return NewSqliteTrackingRepository(db)
}

func TestSqliteGetTask(t *testing.T) {
	repo := newTestRepo(t)

	task, err := repo.GetTask(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}

	if task.SealedPackCode != "SPC-2026-001" {
		t.Errorf("sealed pack code = %q", task.SealedPackCode)
	}
	if task.Status != domain.StatusPending {
		t.Errorf("status = %s, want PENDING", task.Status)
	}
	if task.PickupPoint == nil || task.PickupPoint.Lat != 25.6747 {
		t.Errorf("pickup point = %+v", task.PickupPoint)
	}
	want := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if !task.ScheduledStart.Equal(want) {
		t.Errorf("scheduled start = %v, want %v", task.ScheduledStart, want)
	}
}

func TestSqliteGetTaskDefaultsApplied(t *testing.T) {
	repo := newTestRepo(t)

	task, err := repo.GetTask(context.Background(), "task-2")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.PickupPoint != nil || task.DestinationPoint != nil {
		t.Error("expected nil geofence points for a task seeded without them")
	}
	if task.GeofenceRadiusMeters != domain.DefaultGeofenceRadiusMeters {
		t.Errorf("radius = %v, want default %v", task.GeofenceRadiusMeters, domain.DefaultGeofenceRadiusMeters)
	}
	if task.ExamType != domain.ExamRegular {
		t.Errorf("exam type = %s, want REGULAR", task.ExamType)
	}
}

func TestSqliteGetTaskNotFound(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.GetTask(context.Background(), "missing"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("got %v, want ErrTaskNotFound", err)
	}
}

func testEvent(id string, et domain.EventType, recordedAt time.Time) *domain.Event {
	return &domain.Event{
		ID:         id,
		TaskID:     "task-1",
		Type:       et,
		RecordedAt: recordedAt,
		ReceivedAt: recordedAt.Add(2 * time.Second),
		Latitude:   25.6747,
		Longitude:  94.1086,
		RecordedBy: "agent-7",
		GeofenceOK: true,
		OnTime:     true,
	}
}

func TestSqliteAppendEventAndStatus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	at := time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC)
	if err := repo.AppendEvent(ctx, testEvent("ev-1", domain.EventPickup, at), domain.StatusInProgress); err != nil {
		t.Fatalf("append: %v", err)
	}

	task, err := repo.GetTask(ctx, "task-1")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.Status != domain.StatusInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS (event and status must land together)", task.Status)
	}

	events, err := repo.ListEvents(ctx, "task-1")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 || events[0].Type != domain.EventPickup {
		t.Fatalf("events = %+v", events)
	}
	if !events[0].RecordedAt.Equal(at) {
		t.Errorf("recorded at = %v, want %v", events[0].RecordedAt, at)
	}
	if !events[0].GeofenceOK || !events[0].OnTime {
		t.Error("verdict flags lost in round-trip")
	}
}

func TestSqliteAppendEventDuplicateViolation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	at := time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC)
	if err := repo.AppendEvent(ctx, testEvent("ev-1", domain.EventPickup, at), domain.StatusInProgress); err != nil {
		t.Fatalf("first append: %v", err)
	}

	// Second pickup hits the (task_id, event_type) unique constraint; the raw
	// driver error must be translated, and the status must stay untouched.
	err := repo.AppendEvent(ctx, testEvent("ev-2", domain.EventPickup, at.Add(time.Minute)), domain.StatusSuspicious)
	if !errors.Is(err, domain.ErrDuplicateEvent) {
		t.Fatalf("got %v, want ErrDuplicateEvent", err)
	}

	task, _ := repo.GetTask(ctx, "task-1")
	if task.Status != domain.StatusInProgress {
		t.Fatalf("status mutated to %s by a rejected duplicate", task.Status)
	}
}

func TestSqliteAppendEventUnknownTask(t *testing.T) {
	repo := newTestRepo(t)

	ev := testEvent("ev-1", domain.EventPickup, time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC))
	ev.TaskID = "missing"

	err := repo.AppendEvent(context.Background(), ev, domain.StatusInProgress)
	if err == nil {
		t.Fatal("expected error appending to unknown task")
	}
}

func TestSqliteListEventsOrderedByRecordedAt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	// Insert out of capture order.
	if err := repo.AppendEvent(ctx, testEvent("ev-t", domain.EventTransit, base.Add(40*time.Minute)), domain.StatusInProgress); err != nil {
		t.Fatalf("append transit: %v", err)
	}
	if err := repo.AppendEvent(ctx, testEvent("ev-p", domain.EventPickup, base.Add(5*time.Minute)), domain.StatusInProgress); err != nil {
		t.Fatalf("append pickup: %v", err)
	}

	events, err := repo.ListEvents(ctx, "task-1")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].Type != domain.EventPickup || events[1].Type != domain.EventTransit {
		t.Fatalf("order = [%s %s], want capture-time order [PICKUP TRANSIT]", events[0].Type, events[1].Type)
	}
}

// The server reseeds on every startup; a reseed must never claw an
// engine-written status back to the seeded PENDING under its recorded events.
func TestSqliteReseedPreservesEngineStatus(t *testing.T) {
	db, seedPath := newSeededDB(t)
	repo := NewSqliteTrackingRepository(db)
	ctx := context.Background()

	at := time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC)
	if err := repo.AppendEvent(ctx, testEvent("ev-1", domain.EventPickup, at), domain.StatusInProgress); err != nil {
		t.Fatalf("append: %v", err)
	}

	before, err := repo.GetTask(ctx, "task-1")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}

	// Simulate a restart.
	if err := SeedSqliteFromJSON(db, seedPath); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	after, err := repo.GetTask(ctx, "task-1")
	if err != nil {
		t.Fatalf("get task after reseed: %v", err)
	}
	if after.Status != domain.StatusInProgress {
		t.Fatalf("status after reseed = %s, want IN_PROGRESS", after.Status)
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Errorf("created_at after reseed = %v, want %v", after.CreatedAt, before.CreatedAt)
	}

	events, err := repo.ListEvents(ctx, "task-1")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events after reseed = %d, want 1", len(events))
	}
}

func TestSqliteRecordedEventTypes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if types, _ := repo.RecordedEventTypes(ctx, "task-1"); len(types) != 0 {
		t.Fatalf("fresh task has recorded types: %v", types)
	}

	at := time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC)
	if err := repo.AppendEvent(ctx, testEvent("ev-1", domain.EventPickup, at), domain.StatusInProgress); err != nil {
		t.Fatalf("append: %v", err)
	}

	types, err := repo.RecordedEventTypes(ctx, "task-1")
	if err != nil {
		t.Fatalf("recorded types: %v", err)
	}
	if len(types) != 1 || types[0] != domain.EventPickup {
		t.Fatalf("types = %v, want [PICKUP]", types)
	}
}
