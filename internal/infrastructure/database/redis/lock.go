package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/pkg/errors"
)

// releaseScript deletes the lock only if the caller still owns it, so an
// expired lock re-acquired by another process is never released by the
// original holder.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Lock is a best-effort distributed mutex backed by SET NX.  It serializes
// the auto-booking flow per complaint; correctness is still guaranteed by the
// database unique constraint if the lock expires early.
type Lock struct {
	client *Client
}

// NewLock builds a Lock over the shared client.
func NewLock(client *Client) *Lock {
	return &Lock{client: client}
}

// TryLock attempts to acquire the named lock.  On success it returns a
// release function and true; if the lock is held elsewhere it returns false
// with no error.
func (l *Lock) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	fullKey := l.client.key("lock:" + key)

	ok, err := l.client.rdb.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeUnavailable, "lock acquisition failed")
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client.rdb, []string{fullKey}, token).Err(); err != nil {
			l.client.log.Warn("lock release failed", logging.String("key", key), logging.Err(err))
		}
	}
	return release, true, nil
}
