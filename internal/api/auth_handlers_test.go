package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupFlow(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/auth/setup")
	require.Equal(t, http.StatusOK, resp.Code)

	var status testEnvelope[SetupStatusResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &status))
	assert.True(t, status.Success)
	assert.True(t, status.Data.SetupRequired)

	resp = ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "Admin@Test.com",
		"password":     "TestPassword123!",
		"display_name": "관리자",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.V)
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
	assert.Equal(t, "Bearer", envelope.Data.TokenType)
	assert.Equal(t, "admin@test.com", envelope.Data.User.Email)
	assert.True(t, envelope.Data.User.IsRoot)

	// Setup is one-shot.
	resp = ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "second@test.com",
		"password":     "TestPassword123!",
		"display_name": "Second",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = ts.api.Get("/api/v1/auth/setup")
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &status))
	assert.False(t, status.Data.SetupRequired)
}

func TestLoginAndCurrentUser(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "ADMIN@test.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	token := envelope.Data.AccessToken
	require.NotEmpty(t, token)

	resp = ts.api.Get("/api/v1/users/me", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var user testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))
	assert.Equal(t, "admin@test.com", user.Data.Email)
	assert.Equal(t, "관리자", user.Data.DisplayName)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "admin@test.com",
		"password": "WrongPassword!",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "nobody@test.com",
		"password": "TestPassword123!",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "admin@test.com",
		"password":     "TestPassword123!",
		"display_name": "관리자",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": envelope.Data.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var refreshed testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &refreshed))
	assert.Equal(t, envelope.Data.SessionID, refreshed.Data.SessionID)
	assert.NotEqual(t, envelope.Data.RefreshToken, refreshed.Data.RefreshToken)

	// Rotation invalidates the old refresh token.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": envelope.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/auth/logout", map[string]any{
		"session_id": refreshed.Data.SessionID,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": refreshed.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin(t)

	resp := ts.api.Get("/api/v1/members")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/members", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
