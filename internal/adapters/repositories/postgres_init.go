package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema (used by cmd/dbtool).
func InitPostgresSchema(db *sql.DB) error {
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
		pickup_lat DOUBLE PRECISION,
		pickup_lon DOUBLE PRECISION,
		destination_lat DOUBLE PRECISION,
		destination_lon DOUBLE PRECISION,
		geofence_radius_m DOUBLE PRECISION NOT NULL DEFAULT 100,
		assigned_user_id TEXT NOT NULL,
		scheduled_start TIMESTAMPTZ NOT NULL,
		scheduled_end TIMESTAMPTZ NOT NULL,
		exam_type TEXT NOT NULL DEFAULT 'REGULAR',
		status TEXT NOT NULL DEFAULT 'PENDING',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	`

	createEventsQuery := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		task_id TEXT NOT NULL REFERENCES tasks(id),
		event_type TEXT NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL,
		received_at TIMESTAMPTZ NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		recorded_by TEXT NOT NULL,
		geofence_ok BOOLEAN NOT NULL,
		on_time BOOLEAN NOT NULL,
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

// Populate the Postgres database with task data from a JSON file.
// Reseeding an existing task id updates the seeded fields only; status and
// created_at are left untouched.
func SeedPostgresFromJSON(db *sql.DB, jsonPath string) error {
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
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (id) DO UPDATE
	SET sealed_pack_code = EXCLUDED.sealed_pack_code,
		source_location = EXCLUDED.source_location,
		destination_location = EXCLUDED.destination_location,
		pickup_lat = EXCLUDED.pickup_lat,
		pickup_lon = EXCLUDED.pickup_lon,
		destination_lat = EXCLUDED.destination_lat,
		destination_lon = EXCLUDED.destination_lon,
		geofence_radius_m = EXCLUDED.geofence_radius_m,
		assigned_user_id = EXCLUDED.assigned_user_id,
		scheduled_start = EXCLUDED.scheduled_start,
		scheduled_end = EXCLUDED.scheduled_end,
		exam_type = EXCLUDED.exam_type,
		updated_at = EXCLUDED.updated_at;
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
			t.ScheduledStart, t.ScheduledEnd,
			string(t.ExamType), string(t.Status), t.CreatedAt, t.UpdatedAt,
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
