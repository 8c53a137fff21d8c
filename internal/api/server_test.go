package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/mokjangapp/mokjang-server/internal/auth"
	"github.com/mokjangapp/mokjang-server/internal/logger"
	"github.com/mokjangapp/mokjang-server/internal/media/photos"
	"github.com/mokjangapp/mokjang-server/internal/roster"
	"github.com/mokjangapp/mokjang-server/internal/service"
	"github.com/mokjangapp/mokjang-server/internal/store"
	"github.com/mokjangapp/mokjang-server/internal/store/sqlite"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// testServer bundles the API server with its test harness.
type testServer struct {
	*Server
	api   humatest.TestAPI
	store store.Store
}

// setupTestServer creates a full server over a throwaway database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), slogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(authKey, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	photoStorage, err := photos.NewStorage(tmpDir)
	require.NoError(t, err)

	log := logger.New(logger.Config{Writer: io.Discard, Level: slog.LevelError})
	resolver := roster.NewResolver(roster.DefaultFallbackKeywords())

	sessionService := service.NewSessionService(st, tokenService, slogger)
	services := &Services{
		Auth:       service.NewAuthService(st, tokenService, sessionService, slogger),
		Session:    sessionService,
		Member:     service.NewMemberService(st, slogger),
		Family:     service.NewFamilyService(st, slogger),
		Memo:       service.NewMemoService(st, slogger),
		Role:       service.NewRoleService(st, slogger),
		Taxonomy:   service.NewTaxonomyService(st, resolver, slogger),
		Chowon:     service.NewChowonService(st, slogger),
		Roster:     service.NewRosterService(st, roster.NewPipeline(resolver), slogger),
		Assignment: service.NewAssignmentService(st, log),
		Photo:      service.NewPhotoService(st, photoStorage, slogger),
	}
	storage := &StorageServices{Photos: photoStorage}

	s := NewServer(st, services, storage, []string{"*"}, slogger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		store:  st,
	}
}

// setupAdmin runs initial setup and returns a bearer token.
func (ts *testServer) setupAdmin(t *testing.T) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "admin@test.com",
		"password":     "TestPassword123!",
		"display_name": "관리자",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Setup failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data.AccessToken
}
