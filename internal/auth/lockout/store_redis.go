package lockout

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps lockout counters in Redis so the policy holds across
// multiple API instances. Failure counters live under <key>:fails with
// the window as TTL; lock marks under <key>:lock with the lock TTL.
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) IncrFailures(ctx context.Context, key string, window time.Duration) (int, error) {
	failKey := key + ":fails"
	count, err := s.client.Incr(ctx, failKey).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		// First failure in a fresh window; the TTL bounds the window.
		if err := s.client.Expire(ctx, failKey, window).Err(); err != nil {
			return int(count), err
		}
	}
	return int(count), nil
}

func (s *RedisStore) LockedUntil(ctx context.Context, key string) (time.Time, bool, error) {
	ttl, err := s.client.PTTL(ctx, key+":lock").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	if ttl <= 0 {
		return time.Time{}, false, nil
	}
	return time.Now().Add(ttl), true, nil
}

func (s *RedisStore) SetLocked(ctx context.Context, key string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, key+":lock", "1", ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, key+":fails", key+":lock").Err()
}
