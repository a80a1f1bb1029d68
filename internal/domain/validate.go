package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	minSealedPackCodeLen = 3
	maxSealedPackCodeLen = 100
)

// Validate a task at creation time. Constraints are data (min/max/enum), not
// annotations; callers that create tasks (seeding, dbtool) run this before any
// insert. Returns a *ValidationError naming the first offending field.
func ValidateTask(t *Task) error {
	if strings.TrimSpace(t.ID) == "" {
		return newValidationError("id", "must not be empty")
	}

	code := strings.TrimSpace(t.SealedPackCode)
	if len(code) < minSealedPackCodeLen || len(code) > maxSealedPackCodeLen {
		return newValidationError("sealedPackCode",
			fmt.Sprintf("length must be between %d and %d", minSealedPackCodeLen, maxSealedPackCodeLen))
	}

	if t.PickupPoint != nil && !t.PickupPoint.Valid() {
		return newValidationError("pickupPoint", "latitude must be in [-90,90] and longitude in [-180,180]")
	}
	if t.DestinationPoint != nil && !t.DestinationPoint.Valid() {
		return newValidationError("destinationPoint", "latitude must be in [-90,90] and longitude in [-180,180]")
	}

	if t.GeofenceRadiusMeters < MinGeofenceRadiusMeters || t.GeofenceRadiusMeters > MaxGeofenceRadiusMeters {
		return newValidationError("geofenceRadiusMeters",
			fmt.Sprintf("must be between %v and %v", MinGeofenceRadiusMeters, MaxGeofenceRadiusMeters))
	}

	if strings.TrimSpace(t.AssignedUserID) == "" {
		return newValidationError("assignedUserId", "must not be empty")
	}

	if t.ScheduledStart.IsZero() || t.ScheduledEnd.IsZero() {
		return newValidationError("scheduledStart", "scheduled window must be set")
	}
	if !t.ScheduledEnd.After(t.ScheduledStart) {
		return newValidationError("scheduledEnd", "must be after scheduledStart")
	}

	switch t.ExamType {
	case ExamRegular, ExamCompartmental:
	default:
		return newValidationError("examType", "must be REGULAR or COMPARTMENTAL")
	}

	switch t.Status {
	case StatusPending, StatusInProgress, StatusCompleted, StatusSuspicious:
	default:
		return newValidationError("status", "unknown task status")
	}

	return nil
}

// One event submission as handed to the engine.
type Submission struct {
	TaskID     string
	Type       EventType
	RecordedAt time.Time
	Location   Coordinates
	RecordedBy string
}

// Validate an event submission before the engine touches storage.
func ValidateSubmission(s *Submission) error {
	if strings.TrimSpace(s.TaskID) == "" {
		return newValidationError("taskId", "must not be empty")
	}
	if !s.Type.Valid() {
		return newValidationError("eventType", "must be PICKUP, TRANSIT or FINAL")
	}
	if s.RecordedAt.IsZero() {
		return newValidationError("recordedAt", "must be set")
	}
	if !s.Location.Valid() {
		return newValidationError("location", "latitude must be in [-90,90] and longitude in [-180,180]")
	}
	if strings.TrimSpace(s.RecordedBy) == "" {
		return newValidationError("recordedBy", "must not be empty")
	}
	return nil
}
