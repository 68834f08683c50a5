// Package sweeplock provides a redis-backed mutex so that a scheduled sweep
// runs on exactly one instance per schedule, however many replicas are up.
package sweeplock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Lock struct {
	rdb   *redis.Client
	key   string
	token string
	ttl   time.Duration
}

func New(rdb *redis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{
		rdb:   rdb,
		key:   key,
		token: uuid.NewString(),
		ttl:   ttl,
	}
}

// Acquire attempts to take the lock. Returns false when another instance
// already holds it.
func (l *Lock) Acquire(ctx context.Context) (bool, error) {
	return l.rdb.SetNX(ctx, l.key, l.token, l.ttl).Result()
}

// Release frees the lock, but only if this instance still owns it. A lock
// that expired and was re-acquired elsewhere is left alone.
func (l *Lock) Release(ctx context.Context) error {
	const script = `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		end
		return 0
	`
	return l.rdb.Eval(ctx, script, []string{l.key}, l.token).Err()
}
