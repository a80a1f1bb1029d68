package domain

import "time"

// The three custody-transfer event types. At most one event of each type is
// ever accepted per task; FINAL locks the task against further submissions.
type EventType string

const (
	EventPickup  EventType = "PICKUP"
	EventTransit EventType = "TRANSIT"
	EventFinal   EventType = "FINAL"
)

// Report whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventPickup, EventTransit, EventFinal:
		return true
	}
	return false
}

// Represents a single recorded custody event for a Task.
// RecordedAt is the client-reported capture time; ReceivedAt is when the engine
// accepted the submission. GeofenceOK and OnTime are the validation verdicts at
// acceptance time and form the audit trail: a task may end COMPLETED while an
// earlier event still carries a violation. Events are append-only and never
// mutated or deleted.
type Event struct {
	ID         string
	TaskID     string
	Type       EventType
	RecordedAt time.Time
	ReceivedAt time.Time
	Latitude   float64
	Longitude  float64
	RecordedBy string
	GeofenceOK bool
	OnTime     bool
}

// Coordinates reported at capture.
func (e *Event) Location() Coordinates {
	return Coordinates{Lat: e.Latitude, Lon: e.Longitude}
}
