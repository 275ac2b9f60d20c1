package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/anonto42/pinboard/backend/internal/models"
	"github.com/anonto42/pinboard/backend/internal/repositories"
)

// Service composes the credential, session, pin and saved-pin stores into the
// operations the presentation layer consumes. Authorization gates live here;
// repositories never check ownership themselves.
type Service struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	pins     repositories.PinRepository
	saved    repositories.SavedPinRepository
}

// NewService creates a new catalog Service
func NewService(
	users repositories.UserRepository,
	sessions repositories.SessionRepository,
	pins repositories.PinRepository,
	saved repositories.SavedPinRepository,
) *Service {
	return &Service{users: users, sessions: sessions, pins: pins, saved: saved}
}

// Register creates a new account. The password is stored as a bcrypt hash;
// only the comparison contract survives, never the plaintext.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &models.User{
		ID:           fmt.Sprintf("user_%s", uuid.NewString()),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by email or username and issues a fresh opaque session
// token. Every login gets its own token; concurrent sessions are allowed.
func (s *Service) Login(ctx context.Context, identifier, password string) (string, error) {
	user, err := s.users.GetByIdentifier(ctx, identifier)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := fmt.Sprintf("token_%s", uuid.NewString())
	if err := s.sessions.Create(ctx, token, user.ID); err != nil {
		return "", err
	}
	return token, nil
}

// UserFromToken resolves a bearer token to its user. An unknown token or a
// session pointing at a vanished user is ErrUnauthorized, never a fault.
func (s *Service) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	userID, err := s.sessions.Resolve(ctx, token)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RevokeSession invalidates a token server-side. Logout works without it (the
// client just discards the token), but stricter deployments call it.
func (s *Service) RevokeSession(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// ListPins returns every pin in the catalog; order is a presentation concern.
func (s *Service) ListPins(ctx context.Context) ([]models.Pin, error) {
	return s.pins.List(ctx)
}

// GetPin returns a single pin or ErrNotFound
func (s *Service) GetPin(ctx context.Context, id string) (*models.Pin, error) {
	return s.pins.GetByID(ctx, id)
}

// IngestPins inserts each pin unless its id already exists. A failing element
// is logged and skipped; the rest of the batch still goes through.
func (s *Service) IngestPins(ctx context.Context, pins []models.Pin) int {
	inserted := 0
	for i := range pins {
		if pins[i].ID == "" {
			logrus.Warn("skipping ingest of pin without id")
			continue
		}
		if err := s.pins.InsertIfAbsent(ctx, &pins[i]); err != nil {
			logrus.WithError(err).WithField("pin_id", pins[i].ID).Warn("pin ingest failed")
			continue
		}
		inserted++
	}
	return inserted
}

// UpdatePin overwrites the mutable fields of a pin the requester owns. The
// owner recorded at creation always survives the update.
func (s *Service) UpdatePin(ctx context.Context, requesterID, pinID string, req *models.UpdatePinRequest) (*models.Pin, error) {
	existing, err := s.pins.GetByID(ctx, pinID)
	if err != nil {
		return nil, err
	}
	if existing.PostedBy.ID != requesterID {
		return nil, ErrForbidden
	}

	existing.Image = req.Image
	existing.Destination = req.Destination
	existing.Title = req.Title
	existing.About = req.About
	existing.Category = req.Category
	if err := s.pins.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeletePin removes a pin the requester owns and drops the id from the
// requester's own saved set. Other users' saved sets are left alone; their
// stale ids are filtered out at read time instead.
func (s *Service) DeletePin(ctx context.Context, requesterID, pinID string) error {
	existing, err := s.pins.GetByID(ctx, pinID)
	if err != nil {
		return err
	}
	if existing.PostedBy.ID != requesterID {
		return ErrForbidden
	}
	if err := s.pins.Delete(ctx, pinID); err != nil {
		return err
	}
	return s.saved.Remove(ctx, requesterID, pinID)
}

// SavePin bookmarks an existing pin for the user; saving twice is a no-op.
func (s *Service) SavePin(ctx context.Context, userID, pinID string) error {
	if _, err := s.pins.GetByID(ctx, pinID); err != nil {
		return err
	}
	return s.saved.Add(ctx, userID, pinID)
}

// UnsavePin drops a bookmark; removing an absent id is a no-op.
func (s *Service) UnsavePin(ctx context.Context, userID, pinID string) error {
	return s.saved.Remove(ctx, userID, pinID)
}

// SavedPinIDs returns the user's bookmarks, omitting ids whose pin no longer
// exists (deletes do not sweep other users' sets, so reads filter).
func (s *Service) SavedPinIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.saved.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []string{}, nil
	}

	pins, err := s.pins.List(ctx)
	if err != nil {
		return nil, err
	}
	live := make(map[string]struct{}, len(pins))
	for _, p := range pins {
		live[p.ID] = struct{}{}
	}

	filtered := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := live[id]; ok {
			filtered = append(filtered, id)
		}
	}
	return filtered, nil
}

// SyncSavedPins replaces the user's saved set wholesale; last writer wins.
func (s *Service) SyncSavedPins(ctx context.Context, userID string, pinIDs []string) error {
	return s.saved.Replace(ctx, userID, pinIDs)
}

// ResetCatalog wipes every pin. Only the re-ingestion workflow may call this.
func (s *Service) ResetCatalog(ctx context.Context) error {
	logrus.Warn("clearing pin catalog for re-ingestion")
	return s.pins.ClearAll(ctx)
}
