package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/pinboard/backend/internal/models"
)

func TestSaveAndListSavedPins(t *testing.T) {
	e, svc := newTestServer()
	token := registerAndLogin(t, e, "alice", "a@x.com", "Secret123")
	svc.IngestPins(context.Background(), []models.Pin{testPin("p1", "u9", "A")})

	rec := doJSON(t, e, http.MethodPost, "/api/v1/pins/p1/save", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Saving twice stays a single membership.
	rec = doJSON(t, e, http.MethodPost, "/api/v1/pins/p1/save", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/api/v1/saved-pins", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var ids []string
	decodeBody(t, rec, &ids)
	assert.Equal(t, []string{"p1"}, ids)
}

func TestSaveMissingPin(t *testing.T) {
	e, _ := newTestServer()
	token := registerAndLogin(t, e, "alice", "a@x.com", "Secret123")

	rec := doJSON(t, e, http.MethodPost, "/api/v1/pins/missing/save", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnsavePinIsIdempotent(t *testing.T) {
	e, svc := newTestServer()
	token := registerAndLogin(t, e, "alice", "a@x.com", "Secret123")
	svc.IngestPins(context.Background(), []models.Pin{testPin("p1", "u9", "A")})

	rec := doJSON(t, e, http.MethodPost, "/api/v1/pins/p1/save", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodDelete, "/api/v1/pins/p1/save", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Removing an already-absent id still succeeds.
	rec = doJSON(t, e, http.MethodDelete, "/api/v1/pins/p1/save", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/api/v1/saved-pins", token, nil)
	var ids []string
	decodeBody(t, rec, &ids)
	assert.Empty(t, ids)
}

func TestSyncSavedPinsReplaces(t *testing.T) {
	e, svc := newTestServer()
	token := registerAndLogin(t, e, "alice", "a@x.com", "Secret123")
	svc.IngestPins(context.Background(), []models.Pin{
		testPin("a", "u9", "A"), testPin("b", "u9", "B"), testPin("c", "u9", "C"),
	})

	rec := doJSON(t, e, http.MethodPost, "/api/v1/saved-pins", token, []string{"a", "b"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/v1/saved-pins", token, []string{"c"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/api/v1/saved-pins", token, nil)
	var ids []string
	decodeBody(t, rec, &ids)
	assert.Equal(t, []string{"c"}, ids)
}

func TestSavedPinsRequireSession(t *testing.T) {
	e, _ := newTestServer()

	rec := doJSON(t, e, http.MethodGet, "/api/v1/saved-pins", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/api/v1/saved-pins", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
