package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "session:"

// RedisStore is a Redis-backed session Store. Expiry is delegated entirely
// to Redis TTLs, so expired sessions disappear without any sweeping.
//
// Use this backend when running more than one instance of the server —
// the default SQLite store lives inside a single instance's database file.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed session store from an existing client.
// The caller owns the client's lifecycle.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ Store = (*RedisStore)(nil)

func (r *RedisStore) key(id string) string {
	return redisPrefix + id
}

func (r *RedisStore) Create(ctx context.Context, rec Record) error {
	if rec.ID == "" || rec.Token == "" {
		return errors.New("session: record missing id or token")
	}

	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session: record already expired")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: marshaling record: %w", err)
	}

	if err := r.client.Set(ctx, r.key(rec.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("session: writing record to redis: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	val, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, nil // expired or never existed
	}
	if err != nil {
		return nil, fmt.Errorf("session: reading record from redis: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("session: unmarshaling record: %w", err)
	}
	return &rec, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("session: deleting record from redis: %w", err)
	}
	return nil
}
