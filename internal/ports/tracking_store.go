package ports

import (
	"context"

	"sealed-pack-tracking-service/internal/domain"
)

// Port: the persistence contract of the tracking engine.
//
// AppendEvent is the only write: it must persist the new event and the task
// status update as one atomic unit (both land or neither does), and the store
// must enforce uniqueness of (task_id, event_type). A concurrent writer losing
// that uniqueness race gets domain.ErrDuplicateEvent, never a raw driver error.
type TrackingStore interface {
	TaskRepository
	EventRepository

	AppendEvent(ctx context.Context, event *domain.Event, newStatus domain.TaskStatus) error
}
