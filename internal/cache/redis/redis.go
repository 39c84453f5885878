package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	cacherepo "docvault/internal/repositories/cache"

	"github.com/redis/go-redis/v9"
)

const pkg = "redis/"

type Config struct {
	Addr     string
	Password string
	DB       int
}

type Client struct {
	redisClient *redis.Client
}

type redisResponse[T any] struct {
	cmd redis.Cmder
	get func() (T, error)
}

func (r redisResponse[T]) Err() error {
	err := r.cmd.Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (r redisResponse[T]) Result() (T, error) {
	res, err := r.get()
	if errors.Is(err, redis.Nil) {
		var zero T
		return zero, nil
	}

	return res, err
}

type staticResponse[T any] struct {
	val T
	err error
}

func (r staticResponse[T]) Err() error         { return r.err }
func (r staticResponse[T]) Result() (T, error) { return r.val, r.err }

func (c *Client) Get(ctx context.Context, key string) cacherepo.CacheResponse[string] {
	cmd := c.redisClient.Get(ctx, key)
	return redisResponse[string]{
		cmd: cmd,
		get: cmd.Result,
	}
}

func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) cacherepo.CacheResponse[string] {
	cmd := c.redisClient.Set(ctx, key, value, expiration)
	return redisResponse[string]{
		cmd: cmd,
		get: cmd.Result,
	}
}

func (c *Client) Del(ctx context.Context, keys ...string) cacherepo.CacheResponse[int64] {
	cmd := c.redisClient.Del(ctx, keys...)
	return redisResponse[int64]{
		cmd: cmd,
		get: cmd.Result,
	}
}

// DelByPattern scans the keyspace and deletes every matching key. Used for
// per-folder evaluation-cache invalidation, where the user part of the key
// is unknown to the caller.
func (c *Client) DelByPattern(ctx context.Context, pattern string) cacherepo.CacheResponse[int64] {
	var deleted int64

	iter := c.redisClient.Scan(ctx, 0, pattern, 100).Iterator()

	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return staticResponse[int64]{err: err}
	}

	if len(keys) > 0 {
		n, err := c.redisClient.Del(ctx, keys...).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return staticResponse[int64]{err: err}
		}
		deleted = n
	}

	return staticResponse[int64]{val: deleted}
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	op := pkg + "New"

	client := &Client{
		redisClient: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}

	if err := client.redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: redis: ping failed: %w", op, err)
	}

	return client, nil
}
