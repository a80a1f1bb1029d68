package ports

import (
	"context"

	"sealed-pack-tracking-service/internal/domain"
)

// Port: a boundary for retrieving Task entities from a data source.
type TaskRepository interface {
	// Load a task by id. Returns domain.ErrTaskNotFound if absent.
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)
}
