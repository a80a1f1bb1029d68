package ports

import "context"

// Port: a per-task serialization point. At most one submitEvent call runs per
// task at a time; different tasks never share a lock. Acquire blocks until the
// lock is held or ctx is done, and returns the release function.
type TaskLocker interface {
	Acquire(ctx context.Context, taskID string) (release func(), err error)
}
