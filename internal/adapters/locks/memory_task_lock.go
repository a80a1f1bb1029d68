package locks

import (
	"context"
	"sync"
)

type taskLock struct {
	mu   sync.Mutex
	refs int
}

// In-process implementation of the TaskLocker port, one mutex per task id.
// Suitable for a single engine instance; multi-instance deployments use the
// redis locker so the serialization point is shared. Entries are dropped once
// the last holder or waiter releases, so the map does not grow with every
// task id the server has ever seen.
type MemoryTaskLocker struct {
	mu    sync.Mutex
	locks map[string]*taskLock
}

func NewMemoryTaskLocker() *MemoryTaskLocker {
	return &MemoryTaskLocker{locks: make(map[string]*taskLock)}
}

// Block until the per-task mutex is held. Cross-task acquisitions never
// contend. The ctx is accepted for port compatibility; an in-process mutex
// hold is short enough that cancellation is not observed mid-wait.
func (l *MemoryTaskLocker) Acquire(ctx context.Context, taskID string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	entry, ok := l.locks[taskID]
	if !ok {
		entry = &taskLock{}
		l.locks[taskID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	release := func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, taskID)
		}
		l.mu.Unlock()
	}
	return release, nil
}
