package repositories

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const savedPinsKeyPrefix = "saved_pins:"

// SavedPinRepository owns the per-user set of bookmarked pin ids. Add and
// Remove are idempotent; Replace discards prior membership entirely.
type SavedPinRepository interface {
	Get(ctx context.Context, userID string) ([]string, error)
	Replace(ctx context.Context, userID string, pinIDs []string) error
	Add(ctx context.Context, userID, pinID string) error
	Remove(ctx context.Context, userID, pinID string) error
}

// RedisSavedPinRepository keeps one Redis set per user
type RedisSavedPinRepository struct {
	client *redis.Client
}

// NewRedisSavedPinRepository creates a new RedisSavedPinRepository
func NewRedisSavedPinRepository(client *redis.Client) *RedisSavedPinRepository {
	return &RedisSavedPinRepository{client: client}
}

func (r *RedisSavedPinRepository) Get(ctx context.Context, userID string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, savedPinsKeyPrefix+userID).Result()
	if err != nil {
		return nil, errors.Wrap(err, "load saved pins")
	}
	return ids, nil
}

// Replace runs DEL and SADD in one transactional pipeline so readers never
// observe the emptied set between the two commands.
func (r *RedisSavedPinRepository) Replace(ctx context.Context, userID string, pinIDs []string) error {
	key := savedPinsKeyPrefix + userID
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(pinIDs) > 0 {
		members := make([]interface{}, len(pinIDs))
		for i, id := range pinIDs {
			members[i] = id
		}
		pipe.SAdd(ctx, key, members...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "replace saved pins")
	}
	return nil
}

func (r *RedisSavedPinRepository) Add(ctx context.Context, userID, pinID string) error {
	if err := r.client.SAdd(ctx, savedPinsKeyPrefix+userID, pinID).Err(); err != nil {
		return errors.Wrap(err, "save pin id")
	}
	return nil
}

func (r *RedisSavedPinRepository) Remove(ctx context.Context, userID, pinID string) error {
	if err := r.client.SRem(ctx, savedPinsKeyPrefix+userID, pinID).Err(); err != nil {
		return errors.Wrap(err, "unsave pin id")
	}
	return nil
}
