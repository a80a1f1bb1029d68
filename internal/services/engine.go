package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sealed-pack-tracking-service/internal/domain"
	"sealed-pack-tracking-service/internal/platform/obs"
	"sealed-pack-tracking-service/internal/ports"
)

// The single entry point for ingesting delivery events.
//
// SubmitEvent runs sequencing, geofence and time-window checks against the
// loaded task, asks the state machine for the next status and persists the
// event plus the status update atomically. Per-task serialization comes from
// the TaskLocker; the store's (task_id, event_type) uniqueness constraint backs
// the at-most-once guarantee when engine instances do not share a locker.
type TrackingEngine struct {
	Store ports.TrackingStore
	Locks ports.TaskLocker

	// When true, a submission whose RecordedBy differs from the task's
	// assigned agent is rejected as a validation failure. Off by default;
	// the mismatch policy belongs to the deployment, not the engine.
	RequireAssignedAgent bool

	// Clock override for tests; nil means time.Now.
	Now func() time.Time
}

func NewTrackingEngine(store ports.TrackingStore, locks ports.TaskLocker) *TrackingEngine {
	return &TrackingEngine{Store: store, Locks: locks}
}

// The outcome of an accepted submission.
type SubmitEventResult struct {
	Task  *domain.Task
	Event *domain.Event
}

// Ingest one delivery event for a task.
//
// Geofence and time-window violations are not errors: the event is recorded
// with its verdicts and the task moves to SUSPICIOUS. Errors are limited to
// validation failures, unknown tasks, duplicates and locked tasks; no mutation
// happens on any error path.
func (e *TrackingEngine) SubmitEvent(ctx context.Context, sub domain.Submission) (_ *SubmitEventResult, err error) {
	defer obs.Time(ctx, "engine.SubmitEvent")(&err)

	if err := domain.ValidateSubmission(&sub); err != nil {
		return nil, err
	}

	release, err := e.Locks.Acquire(ctx, sub.TaskID)
	if err != nil {
		return nil, fmt.Errorf("submit event: acquire task lock: %w", err)
	}
	defer release()

	task, err := e.Store.GetTask(ctx, sub.TaskID)
	if err != nil {
		return nil, err
	}

	if e.RequireAssignedAgent && sub.RecordedBy != task.AssignedUserID {
		return nil, &domain.ValidationError{
			Field:  "recordedBy",
			Reason: "submitter is not the assigned delivery agent",
		}
	}

	recorded, err := e.Store.RecordedEventTypes(ctx, sub.TaskID)
	if err != nil {
		return nil, fmt.Errorf("submit event: load recorded event types: %w", err)
	}

	if err := CheckEventAllowed(recorded, sub.Type); err != nil {
		return nil, err
	}

	geofenceOK := WithinGeofence(referencePoint(task, sub.Type), task.GeofenceRadiusMeters, sub.Location)
	onTime := WithinScheduledWindow(task.ScheduledStart, task.ScheduledEnd, sub.RecordedAt)

	nextStatus, err := Transition(task.Status, sub.Type, geofenceOK, onTime)
	if err != nil {
		return nil, err
	}

	event := &domain.Event{
		ID:         uuid.NewString(),
		TaskID:     task.ID,
		Type:       sub.Type,
		RecordedAt: sub.RecordedAt,
		ReceivedAt: e.now(),
		Latitude:   sub.Location.Lat,
		Longitude:  sub.Location.Lon,
		RecordedBy: sub.RecordedBy,
		GeofenceOK: geofenceOK,
		OnTime:     onTime,
	}

	if err := e.Store.AppendEvent(ctx, event, nextStatus); err != nil {
		return nil, err
	}

	task.Status = nextStatus
	task.UpdatedAt = event.ReceivedAt

	return &SubmitEventResult{Task: task, Event: event}, nil
}

// Return the events of a task ordered by recorded_at ascending, for audit
// display. Fails with domain.ErrTaskNotFound for unknown tasks.
func (e *TrackingEngine) GetTaskTimeline(ctx context.Context, taskID string) (_ []*domain.Event, err error) {
	defer obs.Time(ctx, "engine.GetTaskTimeline")(&err)

	if _, err := e.Store.GetTask(ctx, taskID); err != nil {
		return nil, err
	}

	events, err := e.Store.ListEvents(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("task timeline: list events: %w", err)
	}
	return events, nil
}

// Load a task by id.
func (e *TrackingEngine) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	return e.Store.GetTask(ctx, taskID)
}

// PICKUP and TRANSIT validate against the pickup point, FINAL against the
// destination point. A task without the relevant point runs unfenced.
func referencePoint(task *domain.Task, eventType domain.EventType) *domain.Coordinates {
	if eventType == domain.EventFinal {
		return task.DestinationPoint
	}
	return task.PickupPoint
}

func (e *TrackingEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now().UTC()
}
