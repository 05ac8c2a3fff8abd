package cache

import (
	"context"
	"fmt"
	"time"

	"jaggery_back_end/internal/apperr"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker grants at most one holder per key until release or ttl expiry.
type Locker interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// releaseScript deletes the lock only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	rdb *redis.Client
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{rdb: rdb}
}

func LockKey(action, subject string) string {
	return "inflight:" + action + ":" + subject
}

// TryAcquire returns apperr.ErrInFlight when key is already held.
func (l *RedisLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, apperr.ErrInFlight
	}
	return func() {
		// The caller's context may already be done; release on a fresh one.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(rctx, l.rdb, []string{key}, token).Err()
	}, nil
}

// AttemptLimiter counts attempts per subject and blocks the subject for Cooldown once Max is reached.
type AttemptLimiter struct {
	rdb      *redis.Client
	Prefix   string
	Max      int
	Cooldown time.Duration
}

func NewAttemptLimiter(rdb *redis.Client, prefix string, maxAttempts int, cooldown time.Duration) *AttemptLimiter {
	return &AttemptLimiter{rdb: rdb, Prefix: prefix, Max: maxAttempts, Cooldown: cooldown}
}

func (l *AttemptLimiter) attemptsKey(subject string) string { return l.Prefix + "_attempts:" + subject }
func (l *AttemptLimiter) cooldownKey(subject string) string { return l.Prefix + "_cooldown:" + subject }

// Blocked reports whether subject is cooling down and for how long.
func (l *AttemptLimiter) Blocked(ctx context.Context, subject string) (time.Duration, bool, error) {
	ttl, err := l.rdb.TTL(ctx, l.cooldownKey(subject)).Result()
	if err != nil {
		return 0, false, err
	}
	// TTL is -2 for a missing key and -1 for no expiry.
	if ttl < 0 {
		return 0, false, nil
	}
	return ttl, true, nil
}

// Hit records one attempt and returns how many remain before the cooldown starts.
func (l *AttemptLimiter) Hit(ctx context.Context, subject string) (int, error) {
	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, l.attemptsKey(subject))
	pipe.Expire(ctx, l.attemptsKey(subject), l.Cooldown)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	n := int(incr.Val())
	if n < l.Max {
		return l.Max - n, nil
	}
	pipe = l.rdb.TxPipeline()
	pipe.Set(ctx, l.cooldownKey(subject), "1", l.Cooldown)
	pipe.Del(ctx, l.attemptsKey(subject))
	_, err := pipe.Exec(ctx)
	return 0, err
}

func (l *AttemptLimiter) Reset(ctx context.Context, subject string) error {
	return l.rdb.Del(ctx, l.attemptsKey(subject), l.cooldownKey(subject)).Err()
}
