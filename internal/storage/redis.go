package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"firstlog/internal/observability"
)

// RedisStore persists values in Redis. The address may be a plain host:port
// or a redis:// URL.
type RedisStore struct {
	client *redis.Client
	log    *observability.StoreLogger
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr string) (*RedisStore, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{
		client: client,
		log:    observability.NewStoreLogger("redis"),
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		s.log.LogError(ctx, "get", key, err)
		observability.StoreErrors.WithLabelValues("redis", "get").Inc()
		return "", err
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		s.log.LogError(ctx, "set", key, err)
		observability.StoreErrors.WithLabelValues("redis", "set").Inc()
		return err
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.LogError(ctx, "remove", key, err)
		observability.StoreErrors.WithLabelValues("redis", "remove").Inc()
		return err
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
