package services

import (
	"sealed-pack-tracking-service/internal/domain"
)

// Event sequencing rules: each event type is accepted at most once per task,
// and a recorded FINAL locks the task against every further submission. No
// ordering beyond that is enforced; a TRANSIT before PICKUP is accepted as
// long as neither type is a repeat.

var allEventTypes = []domain.EventType{
	domain.EventPickup,
	domain.EventTransit,
	domain.EventFinal,
}

// Return the event types a task may still accept given what is already
// recorded. A locked task (FINAL present) accepts nothing.
func AllowedEventTypes(recorded []domain.EventType, taskLocked bool) []domain.EventType {
	if taskLocked {
		return nil
	}

	seen := make(map[domain.EventType]bool, len(recorded))
	for _, t := range recorded {
		seen[t] = true
		if t == domain.EventFinal {
			return nil
		}
	}

	allowed := make([]domain.EventType, 0, len(allEventTypes))
	for _, t := range allEventTypes {
		if !seen[t] {
			allowed = append(allowed, t)
		}
	}
	return allowed
}

// Decide whether a submission of eventType is permitted given the recorded
// types. Returns domain.ErrTaskLocked when a FINAL event exists, and
// domain.ErrDuplicateEvent when eventType is already recorded.
func CheckEventAllowed(recorded []domain.EventType, eventType domain.EventType) error {
	duplicate := false
	for _, t := range recorded {
		if t == domain.EventFinal {
			return domain.ErrTaskLocked
		}
		if t == eventType {
			duplicate = true
		}
	}

	if duplicate {
		return domain.ErrDuplicateEvent
	}
	return nil
}
