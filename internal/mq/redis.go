package mq

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisClient publishes to Redis pub/sub channels.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient wraps an initialized go-redis client.
func NewRedisClient(client *redis.Client) (*RedisClient, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return &RedisClient{client: client}, nil
}

// Publish sends data to the named channel. Pub/sub carries no headers, so
// attrs are ignored. The returned id is local to this process.
func (r *RedisClient) Publish(ctx context.Context, channel string, data []byte, _ map[string]string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("redis channel is required")
	}
	if err := r.client.Publish(ctx, channel, data).Err(); err != nil {
		return "", err
	}
	return uuid.NewString(), nil
}

// Close is a no-op; the shared client is closed by pkg/redis.
func (r *RedisClient) Close() error {
	return nil
}
