package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stwalsh4118/househunt/internal/logger"
)

const (
	keyPrefix    = "househunt:lock:"
	minRetryWait = 10 * time.Millisecond
	maxRetryWait = 200 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another owner is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every process connected to the same Redis.
// Locks expire after ttl so a crashed holder cannot block a key forever.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedis creates a Redis-backed Locker. Failed releases are logged to log.
func NewRedis(client redis.UniversalClient, ttl time.Duration, log *logger.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, log: log}
}

// Lock polls SET NX with a growing delay until it wins the key or ctx is done.
func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	name := keyPrefix + key
	token := uuid.NewString()
	wait := minRetryWait

	for {
		ok, err := r.client.SetNX(ctx, name, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, ctx.Err())
		case <-timer.C:
		}
		if wait *= 2; wait > maxRetryWait {
			wait = maxRetryWait
		}
	}

	return func() { r.release(name, token) }, nil
}

// release runs even if the caller's context is already cancelled. A key that
// could not be released stays held until its TTL runs out.
func (r *Redis) release(name, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	removed, err := releaseScript.Run(ctx, r.client, []string{name}, token).Int()
	if err != nil {
		r.log.Error("Failed to release lock", err, map[string]interface{}{
			"lock": name,
			"ttl":  r.ttl.String(),
		})
		return
	}
	if removed == 0 {
		r.log.Warn("Lock expired before release", map[string]interface{}{
			"lock": name,
			"ttl":  r.ttl.String(),
		})
	}
}
