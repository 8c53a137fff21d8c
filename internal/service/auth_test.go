package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mokjangapp/mokjang-server/internal/auth"
	domainerrors "github.com/mokjangapp/mokjang-server/internal/errors"
)

func setupAuthTest(t *testing.T) *AuthService {
	t.Helper()

	st := newTestStore(t)
	key, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(key, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	sessionService := NewSessionService(st, tokenService, testLogger())
	return NewAuthService(st, tokenService, sessionService, testLogger())
}

func TestAuthService_SetupAndLogin(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	required, err := svc.SetupRequired(ctx)
	require.NoError(t, err)
	assert.True(t, required)

	resp, err := svc.Setup(ctx, SetupRequest{
		Email:       "Admin@Example.com",
		Password:    "correct horse battery",
		DisplayName: "관리자",
	})
	require.NoError(t, err)
	assert.True(t, resp.User.IsRoot)
	assert.Equal(t, "admin@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	required, err = svc.SetupRequired(ctx)
	require.NoError(t, err)
	assert.False(t, required)

	// Second setup is rejected.
	_, err = svc.Setup(ctx, SetupRequest{
		Email:       "other@example.com",
		Password:    "another password",
		DisplayName: "Other",
	})
	require.Error(t, err)
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeConflict, domainErr.Code)

	// Email lookup is case-insensitive.
	login, err := svc.Login(ctx, LoginRequest{
		Email:    "ADMIN@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestAuthService_LoginBadCredentials(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Setup(ctx, SetupRequest{
		Email:       "admin@example.com",
		Password:    "correct horse battery",
		DisplayName: "Admin",
	})
	require.NoError(t, err)

	// Wrong password and unknown email fail identically.
	_, err = svc.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "wrong"})
	var wrongPass *domainerrors.Error
	require.ErrorAs(t, err, &wrongPass)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "wrong"})
	var unknownEmail *domainerrors.Error
	require.ErrorAs(t, err, &unknownEmail)

	assert.Equal(t, wrongPass.Code, unknownEmail.Code)
	assert.Equal(t, wrongPass.Message, unknownEmail.Message)
	assert.Equal(t, domainerrors.CodeInvalidCredentials, wrongPass.Code)
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	setup, err := svc.Setup(ctx, SetupRequest{
		Email:       "admin@example.com",
		Password:    "correct horse battery",
		DisplayName: "Admin",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: setup.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, setup.SessionID, refreshed.SessionID)
	assert.NotEqual(t, setup.RefreshToken, refreshed.RefreshToken)

	// The old token is dead after rotation.
	_, err = svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: setup.RefreshToken})
	require.Error(t, err)
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeUnauthorized, domainErr.Code)
}

func TestAuthService_LogoutRevokesSession(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	setup, err := svc.Setup(ctx, SetupRequest{
		Email:       "admin@example.com",
		Password:    "correct horse battery",
		DisplayName: "Admin",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, setup.SessionID))

	_, err = svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: setup.RefreshToken})
	require.Error(t, err)
}

func TestAuthService_VerifyAccessToken(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	setup, err := svc.Setup(ctx, SetupRequest{
		Email:       "admin@example.com",
		Password:    "correct horse battery",
		DisplayName: "Admin",
	})
	require.NoError(t, err)

	user, claims, err := svc.VerifyAccessToken(ctx, setup.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, setup.User.ID, user.ID)
	assert.Equal(t, setup.User.ID, claims.UserID)
	assert.True(t, claims.IsRoot)

	_, _, err = svc.VerifyAccessToken(ctx, "v4.local.garbage")
	require.Error(t, err)
}
