package locks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockKeyPrefix   = "spt:tasklock:"
	defaultLockTTL  = 10 * time.Second
	acquirePollStep = 25 * time.Millisecond
)

// Release only when the stored token still belongs to this holder, so an
// expired lock reacquired by another instance is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis-backed implementation of the TaskLocker port using SET NX PX.
// Gives multiple engine instances a shared per-task serialization point. The
// TTL bounds how long a crashed holder can block a task.
type RedisTaskLocker struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisTaskLocker(client *redis.Client) *RedisTaskLocker {
	return &RedisTaskLocker{Client: client, TTL: defaultLockTTL}
}

// Block until the task lock is acquired or ctx is done, polling SET NX.
func (l *RedisTaskLocker) Acquire(ctx context.Context, taskID string) (func(), error) {
	key := lockKeyPrefix + taskID
	token := uuid.NewString()

	ttl := l.TTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}

	for {
		ok, err := l.Client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis task lock: acquire %q: %w", taskID, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(acquirePollStep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	release := func() {
		// Best-effort: an expired lock simply releases nothing.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.Client, []string{key}, token).Err()
	}
	return release, nil
}
