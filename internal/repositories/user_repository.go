package repositories

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/anonto42/pinboard/backend/internal/models"
)

// Redis hash keys for user records and the two uniqueness indices. The full
// record is written under all three access paths and must stay consistent.
const (
	usersKey           = "users"
	usersByEmailKey    = "users_by_email"
	usersByUsernameKey = "users_by_username"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create assigns no ID; the caller provides a fresh one. Returns
	// ErrDuplicateEmail or ErrDuplicateUsername without writing the record
	// when an index already maps the identifier to another user.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByIdentifier looks up by email first, then by username.
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
}

// storedUser is the persisted form; unlike models.User it serializes the
// password hash.
type storedUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

func (s *storedUser) toModel() *models.User {
	return &models.User{
		ID:           s.ID,
		Username:     s.Username,
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
	}
}

func fromModel(u *models.User) *storedUser {
	return &storedUser{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}
}

// RedisUserRepository implements UserRepository on a Redis hash layout
type RedisUserRepository struct {
	client *redis.Client
}

// NewRedisUserRepository creates a new RedisUserRepository
func NewRedisUserRepository(client *redis.Client) *RedisUserRepository {
	return &RedisUserRepository{client: client}
}

// Create reserves both uniqueness indices with HSETNX, so two concurrent
// registrations for the same identifier cannot both win. If the username
// reservation loses after the email reservation won, the email entry is
// released again.
func (r *RedisUserRepository) Create(ctx context.Context, user *models.User) error {
	payload, err := json.Marshal(fromModel(user))
	if err != nil {
		return errors.Wrap(err, "marshal user")
	}

	ok, err := r.client.HSetNX(ctx, usersByEmailKey, user.Email, payload).Result()
	if err != nil {
		return errors.Wrap(err, "reserve email index")
	}
	if !ok {
		return ErrDuplicateEmail
	}

	ok, err = r.client.HSetNX(ctx, usersByUsernameKey, user.Username, payload).Result()
	if err != nil {
		return errors.Wrap(err, "reserve username index")
	}
	if !ok {
		if delErr := r.client.HDel(ctx, usersByEmailKey, user.Email).Err(); delErr != nil {
			return errors.Wrap(delErr, "release email index")
		}
		return ErrDuplicateUsername
	}

	if err := r.client.HSet(ctx, usersKey, user.ID, payload).Err(); err != nil {
		return errors.Wrap(err, "store user record")
	}
	return nil
}

// GetByID retrieves a user by its assigned id
func (r *RedisUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getFromHash(ctx, usersKey, id)
}

// GetByIdentifier retrieves a user by email, falling back to username
func (r *RedisUserRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	user, err := r.getFromHash(ctx, usersByEmailKey, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return r.getFromHash(ctx, usersByUsernameKey, identifier)
}

// GetAll retrieves every registered user
func (r *RedisUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	entries, err := r.client.HGetAll(ctx, usersKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "load users hash")
	}
	users := make([]models.User, 0, len(entries))
	for _, raw := range entries {
		var stored storedUser
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			return nil, errors.Wrap(err, "unmarshal user")
		}
		users = append(users, *stored.toModel())
	}
	return users, nil
}

func (r *RedisUserRepository) getFromHash(ctx context.Context, key, field string) (*models.User, error) {
	raw, err := r.client.HGet(ctx, key, field).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load user")
	}
	var stored storedUser
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, errors.Wrap(err, "unmarshal user")
	}
	return stored.toModel(), nil
}
