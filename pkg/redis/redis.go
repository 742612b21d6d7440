package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// SetClient wires the shared client (called from internal/initial).
func SetClient(c *redis.Client) {
	client = c
}

func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}

func IsConnected() bool {
	return client != nil
}

// GetClient exposes the raw client for advanced use.
func GetClient() *redis.Client {
	return client
}

func checkClient() error {
	if client == nil {
		return fmt.Errorf("redis is not connected")
	}
	return nil
}

func Get(ctx context.Context, key string) (string, error) {
	if err := checkClient(); err != nil {
		return "", err
	}
	return client.Get(ctx, key).Result()
}

func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := checkClient(); err != nil {
		return err
	}
	return client.Set(ctx, key, value, expiration).Err()
}

// SetNX sets the key only when absent (distributed-lock style).
func SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	if err := checkClient(); err != nil {
		return false, err
	}
	return client.SetNX(ctx, key, value, expiration).Result()
}

func Del(ctx context.Context, keys ...string) (int64, error) {
	if err := checkClient(); err != nil {
		return 0, err
	}
	return client.Del(ctx, keys...).Result()
}

// ==================== Set operations (online presence) ====================

func SAdd(ctx context.Context, key string, members ...interface{}) (int64, error) {
	if err := checkClient(); err != nil {
		return 0, err
	}
	return client.SAdd(ctx, key, members...).Result()
}

func SRem(ctx context.Context, key string, members ...interface{}) (int64, error) {
	if err := checkClient(); err != nil {
		return 0, err
	}
	return client.SRem(ctx, key, members...).Result()
}

func SMembers(ctx context.Context, key string) ([]string, error) {
	if err := checkClient(); err != nil {
		return nil, err
	}
	return client.SMembers(ctx, key).Result()
}

func SIsMember(ctx context.Context, key string, member interface{}) (bool, error) {
	if err := checkClient(); err != nil {
		return false, err
	}
	return client.SIsMember(ctx, key, member).Result()
}
