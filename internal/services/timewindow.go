package services

import "time"

// Report whether recordedAt falls inside the scheduled window, both bounds
// inclusive. A violation is a verdict, not a rejection: late or early events
// are still recorded and the state machine routes the task to SUSPICIOUS.
func WithinScheduledWindow(scheduledStart, scheduledEnd, recordedAt time.Time) bool {
	if recordedAt.Before(scheduledStart) {
		return false
	}
	return !recordedAt.After(scheduledEnd)
}
