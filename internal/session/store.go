package session

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrNotFound is returned when a token is absent from or expired in the store.
var ErrNotFound = errors.New("session not found")

// Store persists session tokens. The backing store owns expiry: a token the
// store no longer returns is not authenticated, the application never
// re-checks timestamps itself.
type Store interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Load(ctx context.Context, token string) (userID string, err error)
	Delete(ctx context.Context, token string) error
	Touch(ctx context.Context, token string, ttl time.Duration) error
}

const keyPrefix = "session:"

// RedisStore implements Store on a Redis client, using key TTLs for expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis using a redis:// URL and verifies the
// connection with a ping.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

// Close releases the underlying Redis connections.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, keyPrefix+token, userID, ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, keyPrefix+token).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, keyPrefix+token).Err()
}

func (s *RedisStore) Touch(ctx context.Context, token string, ttl time.Duration) error {
	return s.client.Expire(ctx, keyPrefix+token, ttl).Err()
}
