package repositories

import (
	"context"
	"sync"

	"github.com/anonto42/pinboard/backend/internal/models"
)

// In-memory backing, used by tests and STORE_DRIVER=memory. The real service
// keeps no in-process state; here a mutex stands in for the store's per-key
// atomicity.

// MemoryUserRepository implements UserRepository with maps
type MemoryUserRepository struct {
	mu         sync.RWMutex
	byID       map[string]models.User
	byEmail    map[string]string
	byUsername map[string]string
}

// NewMemoryUserRepository creates a new MemoryUserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:       make(map[string]models.User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return ErrDuplicateEmail
	}
	if _, ok := r.byUsername[user.Username]; ok {
		return ErrDuplicateUsername
	}
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	r.byUsername[user.Username] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.byEmail[identifier]; ok {
		user := r.byID[id]
		return &user, nil
	}
	if id, ok := r.byUsername[identifier]; ok {
		user := r.byID[id]
		return &user, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) GetAll(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]models.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, u)
	}
	return users, nil
}

// MemorySessionRepository implements SessionRepository with a map
type MemorySessionRepository struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewMemorySessionRepository creates a new MemorySessionRepository
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{tokens: make(map[string]string)}
}

func (r *MemorySessionRepository) Create(_ context.Context, token, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = userID
	return nil
}

func (r *MemorySessionRepository) Resolve(_ context.Context, token string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	userID, ok := r.tokens[token]
	if !ok {
		return "", ErrNotFound
	}
	return userID, nil
}

func (r *MemorySessionRepository) Revoke(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

// MemoryPinRepository implements PinRepository with a map
type MemoryPinRepository struct {
	mu   sync.RWMutex
	pins map[string]models.Pin
}

// NewMemoryPinRepository creates a new MemoryPinRepository
func NewMemoryPinRepository() *MemoryPinRepository {
	return &MemoryPinRepository{pins: make(map[string]models.Pin)}
}

func (r *MemoryPinRepository) List(_ context.Context) ([]models.Pin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pins := make([]models.Pin, 0, len(r.pins))
	for _, p := range r.pins {
		pins = append(pins, p)
	}
	return pins, nil
}

func (r *MemoryPinRepository) GetByID(_ context.Context, id string) (*models.Pin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pin, ok := r.pins[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &pin, nil
}

func (r *MemoryPinRepository) InsertIfAbsent(_ context.Context, pin *models.Pin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pins[pin.ID]; ok {
		return nil
	}
	r.pins[pin.ID] = *pin
	return nil
}

func (r *MemoryPinRepository) Update(_ context.Context, pin *models.Pin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pins[pin.ID] = *pin
	return nil
}

func (r *MemoryPinRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pins, id)
	return nil
}

func (r *MemoryPinRepository) ClearAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pins = make(map[string]models.Pin)
	return nil
}

// MemorySavedPinRepository implements SavedPinRepository with per-user sets
type MemorySavedPinRepository struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{}
}

// NewMemorySavedPinRepository creates a new MemorySavedPinRepository
func NewMemorySavedPinRepository() *MemorySavedPinRepository {
	return &MemorySavedPinRepository{sets: make(map[string]map[string]struct{})}
}

func (r *MemorySavedPinRepository) Get(_ context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.sets[userID]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *MemorySavedPinRepository) Replace(_ context.Context, userID string, pinIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := make(map[string]struct{}, len(pinIDs))
	for _, id := range pinIDs {
		set[id] = struct{}{}
	}
	r.sets[userID] = set
	return nil
}

func (r *MemorySavedPinRepository) Add(_ context.Context, userID, pinID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sets[userID]
	if !ok {
		set = make(map[string]struct{})
		r.sets[userID] = set
	}
	set[pinID] = struct{}{}
	return nil
}

func (r *MemorySavedPinRepository) Remove(_ context.Context, userID, pinID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sets[userID], pinID)
	return nil
}
