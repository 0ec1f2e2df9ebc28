package presence

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "mediavault:presence:"

// RedisTracker stores one key per surface holding its last heartbeat in unix
// milliseconds. Keys expire on their own once well past any window.
type RedisTracker struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisTracker(rdb *redis.Client, cfg Config) *RedisTracker {
	return &RedisTracker{
		redis: rdb,
		ttl:   10 * time.Duration(cfg.Window) * time.Millisecond,
	}
}

func (t *RedisTracker) Touch(ctx context.Context, surface string) error {
	return t.redis.Set(ctx, keyPrefix+surface, time.Now().UnixMilli(), t.ttl).Err()
}

func (t *RedisTracker) last(ctx context.Context, key string) (time.Time, bool, error) {
	v, err := t.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false, err
	}

	return time.UnixMilli(ms), true, nil
}

func (t *RedisTracker) Busy(ctx context.Context, surface string, window time.Duration) (bool, error) {
	last, ok, err := t.last(ctx, keyPrefix+surface)
	if err != nil || !ok {
		return false, err
	}

	return time.Since(last) <= window, nil
}

func (t *RedisTracker) Active(ctx context.Context, window time.Duration) ([]string, error) {
	active := []string{}

	iter := t.redis.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		last, ok, err := t.last(ctx, iter.Val())
		if err != nil {
			return nil, err
		}
		if ok && time.Since(last) <= window {
			active = append(active, strings.TrimPrefix(iter.Val(), keyPrefix))
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	sort.Strings(active)

	return active, nil
}
