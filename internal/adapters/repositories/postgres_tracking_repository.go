package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"sealed-pack-tracking-service/internal/domain"
	"sealed-pack-tracking-service/internal/platform/obs"
)

const pgUniqueViolationCode = "23505"

// Postgres-backed implementation of the TrackingStore port (pgx stdlib driver).
// Same contract as the SQLite store; the (task_id, event_type) unique index
// makes the second of two racing writers fail, reported as ErrDuplicateEvent.
type PostgresTrackingRepository struct{ DB *sql.DB }

func NewPostgresTrackingRepository(db *sql.DB) *PostgresTrackingRepository {
	return &PostgresTrackingRepository{DB: db}
}

func (s *PostgresTrackingRepository) GetTask(ctx context.Context, taskID string) (_ *domain.Task, err error) {
	defer obs.Time(ctx, "tracking.store.GetTask")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres tracking repository: DB is nil")
	}

	query := `
	SELECT
		id, sealed_pack_code, source_location, destination_location,
		pickup_lat, pickup_lon, destination_lat, destination_lon,
		geofence_radius_m, assigned_user_id,
		scheduled_start, scheduled_end,
		exam_type, status, created_at, updated_at
	FROM tasks
	WHERE id = $1;
	`

	var (
		t                                      domain.Task
		pickupLat, pickupLon, destLat, destLon sql.NullFloat64
		examType, status                       string
	)

	row := s.DB.QueryRowContext(ctx, query, taskID)
	err = row.Scan(
		&t.ID, &t.SealedPackCode, &t.SourceLocation, &t.DestinationLocation,
		&pickupLat, &pickupLon, &destLat, &destLon,
		&t.GeofenceRadiusMeters, &t.AssignedUserID,
		&t.ScheduledStart, &t.ScheduledEnd,
		&examType, &status, &t.CreatedAt, &t.UpdatedAt,
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

	return &t, nil
}

func (s *PostgresTrackingRepository) ListEvents(ctx context.Context, taskID string) (_ []*domain.Event, err error) {
	defer obs.Time(ctx, "tracking.store.ListEvents")(&err)

	query := `
	SELECT
		id, task_id, event_type, recorded_at, received_at,
		latitude, longitude, recorded_by, geofence_ok, on_time
	FROM events
	WHERE task_id = $1
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
			e         domain.Event
			eventType string
		)
		err := rows.Scan(
			&e.ID, &e.TaskID, &eventType, &e.RecordedAt, &e.ReceivedAt,
			&e.Latitude, &e.Longitude, &e.RecordedBy, &e.GeofenceOK, &e.OnTime,
		)
		if err != nil {
			return nil, fmt.Errorf("list events: scan row: %w", err)
		}
		e.Type = domain.EventType(eventType)
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: row iteration: %w", err)
	}

	return events, nil
}

func (s *PostgresTrackingRepository) RecordedEventTypes(ctx context.Context, taskID string) ([]domain.EventType, error) {
	query := `
	SELECT event_type
	FROM events
	WHERE task_id = $1;
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

// Persist the event and the task status update in one transaction. Unique
// violations (SQLSTATE 23505) surface as ErrDuplicateEvent.
func (s *PostgresTrackingRepository) AppendEvent(ctx context.Context, event *domain.Event, newStatus domain.TaskStatus) (err error) {
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
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.ExecContext(ctx, insertQuery,
		event.ID, event.TaskID, string(event.Type),
		event.RecordedAt, event.ReceivedAt,
		event.Latitude, event.Longitude, event.RecordedBy,
		event.GeofenceOK, event.OnTime,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			return domain.ErrDuplicateEvent
		}
		return fmt.Errorf("append event: insert event: %w", err)
	}

	updateQuery := `
	UPDATE tasks
	SET status = $1, updated_at = $2
	WHERE id = $3;
	`
	res, err := tx.ExecContext(ctx, updateQuery, string(newStatus), event.ReceivedAt, event.TaskID)
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
