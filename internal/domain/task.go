package domain

import "time"

// Task status lifecycle: PENDING -> IN_PROGRESS -> COMPLETED, with SUSPICIOUS as a
// sticky side-branch raised by geofence or time-window violations.
type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusSuspicious TaskStatus = "SUSPICIOUS"
)

type ExamType string

const (
	ExamRegular       ExamType = "REGULAR"
	ExamCompartmental ExamType = "COMPARTMENTAL"
)

// Geofence radius bounds in meters.
const (
	MinGeofenceRadiusMeters     = 10.0
	MaxGeofenceRadiusMeters     = 1000.0
	DefaultGeofenceRadiusMeters = 100.0
)

// Represents one sealed-pack delivery assignment.
// A Task is created externally in status PENDING; after that only the tracking
// engine mutates it (status changes and appended Events). PickupPoint and
// DestinationPoint are optional: a task without them runs with the geofence
// check disabled for the corresponding event types.
type Task struct {
	ID                   string
	SealedPackCode       string
	SourceLocation       string
	DestinationLocation  string
	PickupPoint          *Coordinates
	DestinationPoint     *Coordinates
	GeofenceRadiusMeters float64
	AssignedUserID       string
	ScheduledStart       time.Time
	ScheduledEnd         time.Time
	ExamType             ExamType
	Status               TaskStatus
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
