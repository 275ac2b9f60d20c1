package repositories

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const sessionsKey = "sessions"

// SessionRepository maps opaque bearer tokens to user ids. Sessions carry no
// expiry; Revoke exists so a stricter deployment can invalidate tokens without
// changing the contract shape.
type SessionRepository interface {
	Create(ctx context.Context, token, userID string) error
	// Resolve returns ErrNotFound for an unknown token; an unknown token is
	// "unauthenticated", not a fault.
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// RedisSessionRepository implements SessionRepository on a single Redis hash
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository creates a new RedisSessionRepository
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func (r *RedisSessionRepository) Create(ctx context.Context, token, userID string) error {
	if err := r.client.HSet(ctx, sessionsKey, token, userID).Err(); err != nil {
		return errors.Wrap(err, "store session")
	}
	return nil
}

func (r *RedisSessionRepository) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := r.client.HGet(ctx, sessionsKey, token).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "resolve session")
	}
	return userID, nil
}

func (r *RedisSessionRepository) Revoke(ctx context.Context, token string) error {
	if err := r.client.HDel(ctx, sessionsKey, token).Err(); err != nil {
		return errors.Wrap(err, "revoke session")
	}
	return nil
}
