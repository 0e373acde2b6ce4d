package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoPrefix is returned by a Redis storage without a key prefix: it would
// share the whole database.
var ErrNoPrefix = errors.New("redis key prefix is missing")

// RedisClient is the subset of *redis.Client used by Redis.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

// Redis is a Storage in a Redis database. Keys are stored under a prefix so
// that Clear only removes the keys of this storage.
type Redis struct {
	client RedisClient
	prefix string
	close  func() error
}

// NewRedis returns a Redis storage using client, keys are namespaced with prefix.
func NewRedis(client RedisClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// DialRedis connects to the Redis server at addr and checks the connection.
func DialRedis(ctx context.Context, addr, prefix string) (*Redis, error) {
	if addr == "" {
		return nil, errors.New("redis address is missing")
	}
	if prefix == "" {
		return nil, ErrNoPrefix
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis %q: %w", addr, err)
	}
	r := NewRedis(client, prefix)
	r.close = client.Close
	return r, nil
}

// Close closes the connection opened by DialRedis.
func (r *Redis) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("could not read %q: %w", key, err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("could not write %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("could not delete %q: %w", key, err)
	}
	return nil
}

// Clear deletes every key under the prefix.
// Clear removes the keys under the prefix. It refuses to run without a
// prefix rather than emptying the database.
func (r *Redis) Clear(ctx context.Context) error {
	if r.prefix == "" {
		return ErrNoPrefix
	}
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("could not list keys: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("could not delete keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
