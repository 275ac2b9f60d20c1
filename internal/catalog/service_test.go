package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/pinboard/backend/internal/models"
	"github.com/anonto42/pinboard/backend/internal/repositories"
)

func newTestService() *Service {
	return NewService(
		repositories.NewMemoryUserRepository(),
		repositories.NewMemorySessionRepository(),
		repositories.NewMemoryPinRepository(),
		repositories.NewMemorySavedPinRepository(),
	)
}

func TestRegisterAssignsIDAndHashesPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	user, err := svc.Register(ctx, "alice", "a@x.com", "Secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "Secret123", user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Register(ctx, "alice", "a@x.com", "Secret123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice2", "a@x.com", "Secret123")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = svc.Register(ctx, "alice", "b@x.com", "Secret123")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestLoginByEmailAndUsername(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	registered, err := svc.Register(ctx, "alice", "a@x.com", "Secret123")
	require.NoError(t, err)

	t1, err := svc.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)
	t2, err := svc.Login(ctx, "a@x.com", "Secret123")
	require.NoError(t, err)

	// Two logins, two distinct tokens, one resolved user.
	assert.NotEqual(t, t1, t2)

	u1, err := svc.UserFromToken(ctx, t1)
	require.NoError(t, err)
	u2, err := svc.UserFromToken(ctx, t2)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u1.ID)
	assert.Equal(t, registered.ID, u2.ID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Register(ctx, "alice", "a@x.com", "Secret123")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserFromBogusToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.UserFromToken(ctx, "bogus-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.UserFromToken(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRevokeSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Register(ctx, "alice", "a@x.com", "Secret123")
	require.NoError(t, err)
	token, err := svc.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeSession(ctx, token))
	_, err = svc.UserFromToken(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestIngestPinsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	svc.IngestPins(ctx, []models.Pin{{ID: "p1", Title: "A", PostedBy: models.PinAuthor{ID: "u1"}}})
	svc.IngestPins(ctx, []models.Pin{{ID: "p1", Title: "B", PostedBy: models.PinAuthor{ID: "u2"}}})

	pin, err := svc.GetPin(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "A", pin.Title)
	assert.Equal(t, "u1", pin.PostedBy.ID)
}

func TestIngestPinsSkipsBadElements(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	inserted := svc.IngestPins(ctx, []models.Pin{
		{ID: "", Title: "no id"},
		{ID: "p1", Title: "ok"},
		{ID: "p2", Title: "also ok"},
	})
	assert.Equal(t, 2, inserted)

	pins, err := svc.ListPins(ctx)
	require.NoError(t, err)
	assert.Len(t, pins, 2)
}

func TestUpdatePinOwnershipGate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	svc.IngestPins(ctx, []models.Pin{{ID: "p1", Title: "A", PostedBy: models.PinAuthor{ID: "u1"}}})

	req := &models.UpdatePinRequest{Title: "B"}
	_, err := svc.UpdatePin(ctx, "u2", "p1", req)
	assert.ErrorIs(t, err, ErrForbidden)

	// The rejected update must not have touched the record.
	pin, err := svc.GetPin(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "A", pin.Title)

	updated, err := svc.UpdatePin(ctx, "u1", "p1", req)
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Title)
	assert.Equal(t, "u1", updated.PostedBy.ID)
}

func TestUpdatePinNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.UpdatePin(ctx, "u1", "missing", &models.UpdatePinRequest{Title: "B"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePinOwnershipGate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	svc.IngestPins(ctx, []models.Pin{{ID: "p1", PostedBy: models.PinAuthor{ID: "u1"}}})

	err := svc.DeletePin(ctx, "u2", "p1")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetPin(ctx, "p1")
	assert.NoError(t, err, "pin must survive a forbidden delete")

	require.NoError(t, svc.DeletePin(ctx, "u1", "p1"))
	_, err = svc.GetPin(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePinCleansOwnSavedSet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	svc.IngestPins(ctx, []models.Pin{
		{ID: "p1", PostedBy: models.PinAuthor{ID: "u1"}},
		{ID: "p2", PostedBy: models.PinAuthor{ID: "u1"}},
	})
	require.NoError(t, svc.SavePin(ctx, "u1", "p1"))
	require.NoError(t, svc.SavePin(ctx, "u1", "p2"))

	require.NoError(t, svc.DeletePin(ctx, "u1", "p1"))

	ids, err := svc.SavedPinIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids)
}

func TestSavedPinIDsFiltersDanglingReferences(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	svc.IngestPins(ctx, []models.Pin{{ID: "p1", PostedBy: models.PinAuthor{ID: "u1"}}})

	// u2 saved the pin, then the creator deleted it. u2's set still holds the
	// id, but reads must omit it.
	require.NoError(t, svc.SavePin(ctx, "u2", "p1"))
	require.NoError(t, svc.DeletePin(ctx, "u1", "p1"))

	ids, err := svc.SavedPinIDs(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSavePinRequiresExistingPin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	err := svc.SavePin(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSyncSavedPinsReplacesState(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	svc.IngestPins(ctx, []models.Pin{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	require.NoError(t, svc.SyncSavedPins(ctx, "u1", []string{"a", "b"}))
	require.NoError(t, svc.SyncSavedPins(ctx, "u1", []string{"c"}))

	ids, err := svc.SavedPinIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids)
}

func TestResetCatalog(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	svc.IngestPins(ctx, []models.Pin{{ID: "p1"}, {ID: "p2"}})
	require.NoError(t, svc.ResetCatalog(ctx))

	pins, err := svc.ListPins(ctx)
	require.NoError(t, err)
	assert.Empty(t, pins)
}
