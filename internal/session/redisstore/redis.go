// Package redisstore implements fiber.Storage on top of go-redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const opTimeout = 5 * time.Second

// Storage keeps session payloads in redis under a key prefix.
type Storage struct {
	client *redis.Client
	prefix string
}

var _ fiber.Storage = (*Storage)(nil)

// New wraps an existing client. Keys are stored as prefix + key.
func New(client *redis.Client, prefix string) *Storage {
	return &Storage{client: client, prefix: prefix}
}

// Dial connects to addr and pings it.
func Dial(ctx context.Context, addr, prefix string) (*Storage, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redisstore: ping: %w", err)
	}

	return New(client, prefix), nil
}

func (s *Storage) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

// Get returns nil without error for missing keys.
func (s *Storage) Get(key string) ([]byte, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	return val, err //nolint:wrapcheck
}

// Set stores val; a zero exp keeps the key until deleted.
func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	ctx, cancel := s.ctx()
	defer cancel()

	return s.client.Set(ctx, s.prefix+key, val, exp).Err() //nolint:wrapcheck
}

// Delete removes key; deleting a missing key is not an error.
func (s *Storage) Delete(key string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	return s.client.Del(ctx, s.prefix+key).Err() //nolint:wrapcheck
}

// Reset removes every key below the prefix.
func (s *Storage) Reset() error {
	ctx, cancel := s.ctx()
	defer cancel()

	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return iter.Err() //nolint:wrapcheck
}

// Close closes the underlying client.
func (s *Storage) Close() error {
	return s.client.Close() //nolint:wrapcheck
}
