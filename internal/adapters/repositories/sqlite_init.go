package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the SQLite database schema.
//
// The UNIQUE(task_id, event_type) constraint on events is the storage half of
// the at-most-once guarantee: a concurrent second writer fails the insert and
// the repository reports it as a duplicate event.
func InitSqliteSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTasksQuery := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		sealed_pack_code TEXT NOT NULL,
		source_location TEXT NOT NULL DEFAULT '',
		destination_location TEXT NOT NULL DEFAULT '',
		pickup_lat REAL,
		pickup_lon REAL,
		destination_lat REAL,
		destination_lon REAL,
		geofence_radius_m REAL NOT NULL DEFAULT 100,
		assigned_user_id TEXT NOT NULL,
		scheduled_start TEXT NOT NULL,
		scheduled_end TEXT NOT NULL,
		exam_type TEXT NOT NULL DEFAULT 'REGULAR',
		status TEXT NOT NULL DEFAULT 'PENDING',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	createEventsQuery := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		task_id TEXT NOT NULL REFERENCES tasks(id),
		event_type TEXT NOT NULL,
		recorded_at TEXT NOT NULL,
		received_at TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		recorded_by TEXT NOT NULL,
		geofence_ok INTEGER NOT NULL,
		on_time INTEGER NOT NULL,
		UNIQUE (task_id, event_type)
	);
	`

	createTimelineIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_events_task_recorded
	ON events(task_id, recorded_at);
	`

	statements := []string{
		createTasksQuery,
		createEventsQuery,
		createTimelineIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the SQLite database with task data from a JSON file.
// Reseeding an existing task id updates the seeded fields only: status and
// created_at are engine/creation-owned and survive a reseed, so a restart
// never snaps a task back to PENDING under its recorded events.
func SeedSqliteFromJSON(db *sql.DB, jsonPath string) error {
	tasks, err := loadTaskSeeds(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed tasks: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO tasks (
		id, sealed_pack_code, source_location, destination_location,
		pickup_lat, pickup_lon, destination_lat, destination_lon,
		geofence_radius_m, assigned_user_id,
		scheduled_start, scheduled_end,
		exam_type, status, created_at, updated_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET sealed_pack_code = excluded.sealed_pack_code,
		source_location = excluded.source_location,
		destination_location = excluded.destination_location,
		pickup_lat = excluded.pickup_lat,
		pickup_lon = excluded.pickup_lon,
		destination_lat = excluded.destination_lat,
		destination_lon = excluded.destination_lon,
		geofence_radius_m = excluded.geofence_radius_m,
		assigned_user_id = excluded.assigned_user_id,
		scheduled_start = excluded.scheduled_start,
		scheduled_end = excluded.scheduled_end,
		exam_type = excluded.exam_type,
		updated_at = excluded.updated_at;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed tasks: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		var pickupLat, pickupLon, destLat, destLon any
		if t.PickupPoint != nil {
			pickupLat, pickupLon = t.PickupPoint.Lat, t.PickupPoint.Lon
		}
		if t.DestinationPoint != nil {
			destLat, destLon = t.DestinationPoint.Lat, t.DestinationPoint.Lon
		}

		_, err := stmt.Exec(
			t.ID, t.SealedPackCode, t.SourceLocation, t.DestinationLocation,
			pickupLat, pickupLon, destLat, destLon,
			t.GeofenceRadiusMeters, t.AssignedUserID,
			formatTime(t.ScheduledStart), formatTime(t.ScheduledEnd),
			string(t.ExamType), string(t.Status), formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("seed tasks: insert task_id=%s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed tasks: commit tx: %w", err)
	}

	return nil
}
