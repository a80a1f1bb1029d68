package ports

import (
	"context"

	"sealed-pack-tracking-service/internal/domain"
)

// Port: a boundary for reading recorded Events of a task.
type EventRepository interface {
	// Return all events of a task ordered by recorded_at ascending
	// (capture time, not insertion order), event id as tie-breaker.
	ListEvents(ctx context.Context, taskID string) ([]*domain.Event, error)

	// Return the event types already recorded for a task.
	RecordedEventTypes(ctx context.Context, taskID string) ([]domain.EventType, error)
}
