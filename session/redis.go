package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nmaupu/cocktails/errors"
)

const keyPrefix = "session:"

// Redis stores sessions under session:<id> keys with a TTL per key, shared
// across replicas. Get refreshes the TTL via GETEX.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects with the given URL and verifies the server responds.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	if url == "" {
		return nil, errors.WrapInvalid(nil, "session", "NewRedis", "redis URL cannot be empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.WrapInvalid(err, "session", "NewRedis", "parse redis URL")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.WrapTransient(err, "session", "NewRedis", "ping redis")
	}
	return &Redis{client: client, ttl: ttl}, nil
}

// Create persists the session under a fresh id.
func (r *Redis) Create(ctx context.Context, s Session) (string, error) {
	id := uuid.NewString()
	s.ID = id
	payload, err := json.Marshal(s)
	if err != nil {
		return "", errors.WrapInvalid(err, "session", "Create", "encode session")
	}
	if err := r.client.Set(ctx, keyPrefix+id, payload, r.ttl).Err(); err != nil {
		return "", errors.WrapTransient(err, "session", "Create", "store session")
	}
	return id, nil
}

// Get returns the session for the id, extending its TTL.
func (r *Redis) Get(ctx context.Context, id string) (Session, error) {
	payload, err := r.client.GetEx(ctx, keyPrefix+id, r.ttl).Result()
	if err == redis.Nil {
		return Session{}, errors.WrapInvalid(errors.ErrSessionExpired, "session", "Get", "unknown session")
	}
	if err != nil {
		return Session{}, errors.WrapTransient(err, "session", "Get", "load session")
	}
	var s Session
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return Session{}, errors.WrapInvalid(err, "session", "Get", "decode session")
	}
	s.ID = id
	return s, nil
}

// Delete removes the session key if present.
func (r *Redis) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return errors.WrapTransient(err, "session", "Delete", "delete session")
	}
	return nil
}

// Ping verifies the redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.WrapTransient(err, "session", "Ping", "ping redis")
	}
	return nil
}

// Close closes the redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}
