package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/pinboard/backend/internal/catalog"
	"github.com/anonto42/pinboard/backend/internal/middleware"
	"github.com/anonto42/pinboard/backend/internal/repositories"
	"github.com/anonto42/pinboard/backend/validators"
)

// newTestServer wires the full route table onto a memory-backed catalog, the
// same shape the router builds in production minus the discover routes.
func newTestServer() (*echo.Echo, *catalog.Service) {
	svc := catalog.NewService(
		repositories.NewMemoryUserRepository(),
		repositories.NewMemorySessionRepository(),
		repositories.NewMemoryPinRepository(),
		repositories.NewMemorySavedPinRepository(),
	)

	e := echo.New()
	e.Validator = validators.NewValidator()

	api := e.Group("/api/v1")
	NewAuthHandler(svc).RegisterAuthRoutes(api.Group("/auth"))

	pinHandler := NewPinHandler(svc)
	pinHandler.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.SessionAuthMiddleware(svc))
	pinHandler.RegisterProtectedRoutes(protected)
	NewSavedPinHandler(svc).RegisterSavedPinRoutes(protected)

	return e, svc
}

func doJSON(t *testing.T, e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// registerAndLogin creates an account and returns its session token
func registerAndLogin(t *testing.T, e *echo.Echo, username, email, password string) string {
	t.Helper()

	rec := doJSON(t, e, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"identifier": username,
		"password":   password,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}
