package repositories

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/anonto42/pinboard/backend/internal/models"
)

const pinKeyPrefix = "pin:"

// PinRepository defines the interface for pin data operations. Ownership
// checks are not enforced here; that is the catalog service's job.
type PinRepository interface {
	List(ctx context.Context) ([]models.Pin, error)
	GetByID(ctx context.Context, id string) (*models.Pin, error)
	// InsertIfAbsent is a no-op when a pin with the same id already exists.
	// It never overwrites; only Update does.
	InsertIfAbsent(ctx context.Context, pin *models.Pin) error
	Update(ctx context.Context, pin *models.Pin) error
	Delete(ctx context.Context, id string) error
	// ClearAll removes every pin. Destructive; only the re-ingestion
	// workflow may trigger it.
	ClearAll(ctx context.Context) error
}

// RedisPinRepository stores each pin as a JSON string under pin:{id}
type RedisPinRepository struct {
	client *redis.Client
}

// NewRedisPinRepository creates a new RedisPinRepository
func NewRedisPinRepository(client *redis.Client) *RedisPinRepository {
	return &RedisPinRepository{client: client}
}

func (r *RedisPinRepository) List(ctx context.Context) ([]models.Pin, error) {
	keys, err := r.client.Keys(ctx, pinKeyPrefix+"*").Result()
	if err != nil {
		return nil, errors.Wrap(err, "list pin keys")
	}
	if len(keys) == 0 {
		return []models.Pin{}, nil
	}
	raws, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "load pins")
	}
	pins := make([]models.Pin, 0, len(raws))
	for _, raw := range raws {
		s, ok := raw.(string)
		if !ok {
			// Key deleted between KEYS and MGET.
			continue
		}
		var pin models.Pin
		if err := json.Unmarshal([]byte(s), &pin); err != nil {
			return nil, errors.Wrap(err, "unmarshal pin")
		}
		pins = append(pins, pin)
	}
	return pins, nil
}

func (r *RedisPinRepository) GetByID(ctx context.Context, id string) (*models.Pin, error) {
	raw, err := r.client.Get(ctx, pinKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load pin")
	}
	var pin models.Pin
	if err := json.Unmarshal([]byte(raw), &pin); err != nil {
		return nil, errors.Wrap(err, "unmarshal pin")
	}
	return &pin, nil
}

func (r *RedisPinRepository) InsertIfAbsent(ctx context.Context, pin *models.Pin) error {
	payload, err := json.Marshal(pin)
	if err != nil {
		return errors.Wrap(err, "marshal pin")
	}
	if err := r.client.SetNX(ctx, pinKeyPrefix+pin.ID, payload, 0).Err(); err != nil {
		return errors.Wrap(err, "insert pin")
	}
	return nil
}

func (r *RedisPinRepository) Update(ctx context.Context, pin *models.Pin) error {
	payload, err := json.Marshal(pin)
	if err != nil {
		return errors.Wrap(err, "marshal pin")
	}
	if err := r.client.Set(ctx, pinKeyPrefix+pin.ID, payload, 0).Err(); err != nil {
		return errors.Wrap(err, "update pin")
	}
	return nil
}

func (r *RedisPinRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, pinKeyPrefix+id).Err(); err != nil {
		return errors.Wrap(err, "delete pin")
	}
	return nil
}

func (r *RedisPinRepository) ClearAll(ctx context.Context) error {
	keys, err := r.client.Keys(ctx, pinKeyPrefix+"*").Result()
	if err != nil {
		return errors.Wrap(err, "list pin keys")
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, "clear pins")
	}
	return nil
}
