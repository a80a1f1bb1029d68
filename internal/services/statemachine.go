package services

import (
	"sealed-pack-tracking-service/internal/domain"
)

// The authoritative status transition function.
//
// Given the current task status and the verdicts for an accepted event, compute
// the next status:
//
//   - COMPLETED is terminal; any further event is rejected with ErrTaskLocked.
//   - Any geofence or time-window violation routes the task to SUSPICIOUS. The
//     flag is sticky: a later valid PICKUP or TRANSIT never returns the task to
//     IN_PROGRESS.
//   - A fully valid FINAL closes the task as COMPLETED even from SUSPICIOUS;
//     investigators review the audit trail rather than the system blocking
//     completion outright.
//   - A fully valid PICKUP moves PENDING to IN_PROGRESS. TRANSIT events are
//     checkpoints and never change status on their own.
func Transition(current domain.TaskStatus, eventType domain.EventType, geofenceOK, onTime bool) (domain.TaskStatus, error) {
	if current == domain.StatusCompleted {
		return current, domain.ErrTaskLocked
	}

	if !geofenceOK || !onTime {
		return domain.StatusSuspicious, nil
	}

	switch eventType {
	case domain.EventFinal:
		return domain.StatusCompleted, nil
	case domain.EventPickup:
		if current == domain.StatusPending {
			return domain.StatusInProgress, nil
		}
		return current, nil
	default:
		return current, nil
	}
}
