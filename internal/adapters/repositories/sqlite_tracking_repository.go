package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sealed-pack-tracking-service/internal/domain"
	"sealed-pack-tracking-service/internal/platform/obs"
)

// Timestamps are stored as fixed-width UTC text so lexical order equals
// chronological order (the timeline index sorts on the raw column).
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// SQLite-backed implementation of the TrackingStore port.
type SqliteTrackingRepository struct{ DB *sql.DB }

func NewSqliteTrackingRepository(db *sql.DB) *SqliteTrackingRepository {
	return &SqliteTrackingRepository{DB: db}
}

func (s *SqliteTrackingRepository) GetTask(ctx context.Context, taskID string) (_ *domain.Task, err error) {
	defer obs.Time(ctx, "tracking.store.GetTask")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite tracking repository: DB is nil")
	}

	query := `
	SELECT
		id, sealed_pack_code, source_location, destination_location,
		pickup_lat, pickup_lon, destination_lat, destination_lon,
		geofence_radius_m, assigned_user_id,
		scheduled_start, scheduled_end,
		exam_type, status, created_at, updated_at
	FROM tasks
	WHERE id = ?;
	`

	var (
		t                                      domain.Task
		pickupLat, pickupLon, destLat, destLon sql.NullFloat64
		start, end, createdAt, updatedAt       string
		examType, status                       string
	)

	row := s.DB.QueryRowContext(ctx, query, taskID)
	err = row.Scan(
		&t.ID, &t.SealedPackCode, &t.SourceLocation, &t.DestinationLocation,
		&pickupLat, &pickupLon, &destLat, &destLon,
		&t.GeofenceRadiusMeters, &t.AssignedUserID,
		&start, &end,
		&examType, &status, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: scan row: %w", err)
	}

	if pickupLat.Valid && pickupLon.Valid {
		t.PickupPoint = &domain.Coordinates{Lat: pickupLat.Float64, Lon: pickupLon.Float64}
	}
	if destLat.Valid && destLon.Valid {
		t.DestinationPoint = &domain.Coordinates{Lat: destLat.Float64, Lon: destLon.Float64}
	}
	t.ExamType = domain.ExamType(examType)
	t.Status = domain.TaskStatus(status)

	if t.ScheduledStart, err = parseTime(start); err != nil {
		return nil, fmt.Errorf("get task: parse scheduled_start: %w", err)
	}
	if t.ScheduledEnd, err = parseTime(end); err != nil {
		return nil, fmt.Errorf("get task: parse scheduled_end: %w", err)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("get task: parse created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("get task: parse updated_at: %w", err)
	}

	return &t, nil
}

func (s *SqliteTrackingRepository) ListEvents(ctx context.Context, taskID string) (_ []*domain.Event, err error) {
	defer obs.Time(ctx, "tracking.store.ListEvents")(&err)

	query := `
	SELECT
		id, task_id, event_type, recorded_at, received_at,
		latitude, longitude, recorded_by, geofence_ok, on_time
	FROM events
	WHERE task_id = ?
	ORDER BY recorded_at, id;
	`
	rows, err := s.DB.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("list events: query events table: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.Event, 0, 3)
	for rows.Next() {
		var (
			e                      domain.Event
			eventType              string
			recordedAt, receivedAt string
		)
		err := rows.Scan(
			&e.ID, &e.TaskID, &eventType, &recordedAt, &receivedAt,
			&e.Latitude, &e.Longitude, &e.RecordedBy, &e.GeofenceOK, &e.OnTime,
		)
		if err != nil {
			return nil, fmt.Errorf("list events: scan row: %w", err)
		}

		e.Type = domain.EventType(eventType)
		if e.RecordedAt, err = parseTime(recordedAt); err != nil {
			return nil, fmt.Errorf("list events: parse recorded_at: %w", err)
		}
		if e.ReceivedAt, err = parseTime(receivedAt); err != nil {
			return nil, fmt.Errorf("list events: parse received_at: %w", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: row iteration: %w", err)
	}

	return events, nil
}

func (s *SqliteTrackingRepository) RecordedEventTypes(ctx context.Context, taskID string) ([]domain.EventType, error) {
	query := `
	SELECT event_type
	FROM events
	WHERE task_id = ?;
	`
	rows, err := s.DB.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("recorded event types: query events table: %w", err)
	}
	defer rows.Close()

	types := make([]domain.EventType, 0, 3)
	for rows.Next() {
		var et string
		if err := rows.Scan(&et); err != nil {
			return nil, fmt.Errorf("recorded event types: scan row: %w", err)
		}
		types = append(types, domain.EventType(et))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recorded event types: row iteration: %w", err)
	}

	return types, nil
}

// Persist the event and the task status update in one transaction. A unique
// constraint violation on (task_id, event_type) surfaces as ErrDuplicateEvent.
func (s *SqliteTrackingRepository) AppendEvent(ctx context.Context, event *domain.Event, newStatus domain.TaskStatus) (err error) {
	defer obs.Time(ctx, "tracking.store.AppendEvent")(&err)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append event: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertQuery := `
	INSERT INTO events (
		id, task_id, event_type, recorded_at, received_at,
		latitude, longitude, recorded_by, geofence_ok, on_time
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err = tx.ExecContext(ctx, insertQuery,
		event.ID, event.TaskID, string(event.Type),
		formatTime(event.RecordedAt), formatTime(event.ReceivedAt),
		event.Latitude, event.Longitude, event.RecordedBy,
		event.GeofenceOK, event.OnTime,
	)
	if err != nil {
		if isSqliteUniqueViolation(err) {
			return domain.ErrDuplicateEvent
		}
		return fmt.Errorf("append event: insert event: %w", err)
	}

	updateQuery := `
	UPDATE tasks
	SET status = ?, updated_at = ?
	WHERE id = ?;
	`
	res, err := tx.ExecContext(ctx, updateQuery, string(newStatus), formatTime(event.ReceivedAt), event.TaskID)
	if err != nil {
		return fmt.Errorf("append event: update task status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrTaskNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append event: commit tx: %w", err)
	}

	return nil
}

func isSqliteUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
