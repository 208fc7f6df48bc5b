package redis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Get when the key does not exist
var ErrNotFound = errors.New("key not found")

// KeyValue is the flat key-value storage the game state lives in
type KeyValue interface {
	Get(key string) (string, error)
	Set(key string, value string) error
	// SetMany writes every entry or none of them
	SetMany(values map[string]string) error
	Del(keys ...string) error
}

// RedisClient handles Redis operations
type RedisClient struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisClient creates a new Redis client instance. Addr is either a plain
// host:port or a redis:// URL.
func NewRedisClient(Addr string, DB int) (*RedisClient, error) {
	var client *redis.Client
	if strings.HasPrefix(Addr, "redis://") || strings.HasPrefix(Addr, "rediss://") {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		Client: client,
		Ctx:    context.Background(),
	}, nil
}

// Get returns the raw value stored at key
func (rc *RedisClient) Get(key string) (string, error) {
	value, err := rc.Client.Get(rc.Ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("error getting %s from Redis: %w", key, err)
	}
	return value, nil
}

// Set stores value at key without expiry; game progress is meant to last
func (rc *RedisClient) Set(key string, value string) error {
	if err := rc.Client.Set(rc.Ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("error setting %s in Redis: %w", key, err)
	}
	return nil
}

// SetMany writes values inside a MULTI/EXEC transaction
func (rc *RedisClient) SetMany(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	_, err := rc.Client.TxPipelined(rc.Ctx, func(pipe redis.Pipeliner) error {
		for key, value := range values {
			pipe.Set(rc.Ctx, key, value, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error setting keys in Redis: %w", err)
	}
	return nil
}

// Del removes keys in a single pipeline
func (rc *RedisClient) Del(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	pipe := rc.Client.Pipeline()
	for _, key := range keys {
		pipe.Del(rc.Ctx, key)
	}
	if _, err := pipe.Exec(rc.Ctx); err != nil {
		return fmt.Errorf("error deleting keys from Redis: %w", err)
	}
	return nil
}
